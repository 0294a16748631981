package main

import (
	"flag"
	"os"
	"path/filepath"

	"svg-particles/internal/config"
	"svg-particles/internal/engine3D"
	"svg-particles/internal/utils"
)

func main() {
	countFlag := flag.Int("count", 0, "Target particle count per layer (0 = default)")
	densityFlag := flag.Float64("density", 0, "Sampling density (0 = default)")
	colorFlag := flag.String("color", "", "Flat particle color, #hex or rgb(r,g,b)")
	gradientFlag := flag.Bool("gradient", false, "Enable the two-color vertical gradient")
	preserveFlag := flag.Bool("preserve-colors", false, "Keep colors sampled from the artwork")
	noGlowFlag := flag.Bool("no-glow", false, "Disable the bloom post-process")
	oscillateFlag := flag.Bool("oscillate", false, "Use the oscillator instead of coherent noise")
	sandFlag := flag.Bool("sand", false, "Enable the spring (sand) return physics")
	depthFlag := flag.Float64("depth", 0, "Depth range in world units")
	widthFlag := flag.Int("width", 1280, "Window width")
	heightFlag := flag.Int("height", 720, "Window height")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	if *debugFlag {
		utils.CurrentLevel = utils.LevelDebug
	}

	if flag.NArg() == 0 {
		utils.Error("Usage: svg-particles [flags] artwork.svg [more.svg ...]")
		os.Exit(1)
	}

	settings := config.Default()
	if *countFlag > 0 {
		settings.ParticleCount = *countFlag
	}
	if *densityFlag > 0 {
		settings.Density = *densityFlag
	}
	if *colorFlag != "" {
		if c, err := config.ParseColor(*colorFlag); err == nil {
			settings.Color = c
		} else {
			utils.Warn("Ignoring -color: %v", err)
		}
	}
	settings.UseGradient = *gradientFlag
	settings.PreserveColors = *preserveFlag
	settings.GlowEffect = !*noGlowFlag
	settings.NoiseMovement = !*oscillateFlag
	settings.SandEffect = *sandFlag
	settings.SvgDepth = *depthFlag

	engine := engine3D.NewEngine(engine3D.Options{Settings: settings})

	imported := 0
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			utils.Error("Failed to read %s: %v", path, err)
			continue
		}
		name := filepath.Base(path)
		if _, err := engine.ImportArtwork(string(data), name); err != nil {
			utils.Error("Failed to import %s: %v", path, err)
			continue
		}
		imported++
	}
	if imported == 0 {
		utils.Error("No artwork could be imported")
		os.Exit(1)
	}

	window := NewWindow(engine, int32(*widthFlag), int32(*heightFlag))
	window.Run()
}
