package renderer

// Cloth and spheres share one Phong lighting model. The cloth is lit from
// whichever side faces the camera.
const litVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
layout (location = 2) in vec3 aNormal;

uniform mat4 view;
uniform mat4 projection;
uniform vec3 objectColor;
uniform float useVertexColor;

out vec3 fragPos;
out vec3 normal;
out vec3 color;

void main() {
    fragPos = aPos;
    normal = aNormal;
    color = mix(objectColor, aColor, useVertexColor);
    gl_Position = projection * view * vec4(aPos, 1.0);
}
`

const litFragmentShader = `
#version 410 core

in vec3 fragPos;
in vec3 normal;
in vec3 color;

uniform vec3 lightPos;
uniform vec3 lightColor;
uniform vec3 viewPos;
uniform float twoSided;
uniform float ambientStrength;
uniform float specularStrength;
uniform float shininess;

out vec4 FragColor;

void main() {
    vec3 n = normal;
    float len = length(n);
    if (len > 0.0) {
        n /= len;
    }
    if (twoSided > 0.5 && !gl_FrontFacing) {
        n = -n;
    }

    vec3 ambient = ambientStrength * lightColor;

    vec3 lightDir = normalize(lightPos - fragPos);
    vec3 diffuse = max(dot(n, lightDir), 0.0) * lightColor;

    vec3 viewDir = normalize(viewPos - fragPos);
    vec3 reflectDir = reflect(-lightDir, n);
    vec3 specular = specularStrength * pow(max(dot(viewDir, reflectDir), 0.0), shininess) * lightColor;

    FragColor = vec4((ambient + diffuse + specular) * color, 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 view;
uniform mat4 projection;

void main() {
    gl_Position = projection * view * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

uniform vec3 lineColor;

out vec4 FragColor;

void main() {
    FragColor = vec4(lineColor, 1.0);
}
`
