package render

// Instanced mesh shader: per-instance model matrix arrives as a vertex
// attribute, tint comes from the material's diffuse color.
const instanceVS = `
#version 330
in vec3 vertexPosition;
in mat4 instanceTransform;
uniform mat4 mvp;
void main() {
    gl_Position = mvp * instanceTransform * vec4(vertexPosition, 1.0);
}
`

const instanceFS = `
#version 330
uniform vec4 colDiffuse;
out vec4 finalColor;
void main() {
    finalColor = colDiffuse;
}
`

// Bright-pass: keep pixels above the luminance threshold, rescaled so the
// glow ramps in instead of popping.
const extractFS = `
#version 330
in vec2 fragTexCoord;
uniform sampler2D texture0;
uniform float threshold;
out vec4 finalColor;
void main() {
    vec4 color = texture(texture0, fragTexCoord);
    float luminance = dot(color.rgb, vec3(0.2126, 0.7152, 0.0722));
    float contribution = max(luminance - threshold, 0.0) / max(1.0 - threshold, 0.0001);
    finalColor = vec4(color.rgb * contribution, 1.0);
}
`

// 9-tap separable gaussian; direction carries the texel step.
const blurFS = `
#version 330
in vec2 fragTexCoord;
uniform sampler2D texture0;
uniform vec2 direction;
out vec4 finalColor;
void main() {
    float weights[5] = float[](0.227027, 0.194594, 0.121621, 0.054054, 0.016216);
    vec3 result = texture(texture0, fragTexCoord).rgb * weights[0];
    for (int i = 1; i < 5; i++) {
        vec2 offset = direction * float(i);
        result += texture(texture0, fragTexCoord + offset).rgb * weights[i];
        result += texture(texture0, fragTexCoord - offset).rgb * weights[i];
    }
    finalColor = vec4(result, 1.0);
}
`

const combineFS = `
#version 330
in vec2 fragTexCoord;
uniform sampler2D texture0;
uniform sampler2D bloomTexture;
uniform float bloomStrength;
out vec4 finalColor;
void main() {
    vec3 scene = texture(texture0, fragTexCoord).rgb;
    vec3 bloom = texture(bloomTexture, fragTexCoord).rgb;
    finalColor = vec4(scene + bloom * bloomStrength, 1.0);
}
`
