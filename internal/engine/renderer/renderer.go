// Package renderer draws the cloth and obstacle meshes with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/cloth-sim/internal/engine/debug"
	"github.com/Faultbox/cloth-sim/internal/engine/lighting"
	"github.com/Faultbox/cloth-sim/internal/engine/shader"
	"github.com/Faultbox/cloth-sim/internal/logger"
	"github.com/Faultbox/cloth-sim/internal/mesh"
	"github.com/Faultbox/cloth-sim/pkg/math"
)

// Scene colors.
var (
	SphereColor = math.Vec3{X: 0.7, Y: 0, Z: 0}
	BoundsColor = math.Vec3{X: 1, Y: 1, Z: 0}
)

const floatSize = 4

// Config holds renderer configuration.
type Config struct {
	Width  int // drawable size in pixels
	Height int
	Light  lighting.PointLight
}

// meshBuffers is one indexed VAO.
type meshBuffers struct {
	vao, vbo, ebo uint32
	indexCount    int32
	vertexBytes   int
}

func (b *meshBuffers) delete() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
	*b = meshBuffers{}
}

// View is the per-frame camera state.
type View struct {
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	lit   *shader.Program
	lines *shader.Program

	cloth   meshBuffers
	spheres meshBuffers

	boundsVAO, boundsVBO uint32
	boundsScratch        []float32
}

// New initializes OpenGL and creates GPU buffers sized for the given
// meshes. Must be called after the OpenGL context exists.
func New(cfg Config, cm *mesh.ClothMesh, sm *mesh.SphereMesh) (*Renderer, error) {
	cfg.Light = cfg.Light.Clamped()
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0, 0, 0, 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.lit, err = shader.New(litVertexShader, litFragmentShader); err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}
	if r.lines, err = shader.New(lineVertexShader, lineFragmentShader); err != nil {
		r.lit.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r.cloth = newMeshBuffers(cm.Indices, mesh.ClothStride, true)
	r.spheres = newMeshBuffers(sm.Indices, mesh.SphereStride, false)
	r.UploadCloth(cm)
	r.UploadSpheres(sm)
	r.createBounds()

	logger.Debug("renderer ready",
		zap.Int32("cloth_indices", r.cloth.indexCount),
		zap.Int32("sphere_indices", r.spheres.indexCount),
	)
	return r, nil
}

// newMeshBuffers creates a VAO with a static index buffer. withColor
// selects the cloth layout (pos, color, normal) over the sphere layout
// (pos, normal).
func newMeshBuffers(indices []uint32, stride int, withColor bool) meshBuffers {
	var b meshBuffers
	b.indexCount = int32(len(indices))

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	strideBytes := int32(stride * floatSize)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, strideBytes, 0)
	gl.EnableVertexAttribArray(0)
	if withColor {
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, strideBytes, 3*floatSize)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, strideBytes, 6*floatSize)
	} else {
		gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, strideBytes, 3*floatSize)
	}
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b
}

func (r *Renderer) createBounds() {
	r.boundsScratch = make([]float32, 0, debug.BoxLineVertices*3)

	gl.GenVertexArrays(1, &r.boundsVAO)
	gl.BindVertexArray(r.boundsVAO)
	gl.GenBuffers(1, &r.boundsVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundsVBO)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BoxLineVertices*3*floatSize, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*floatSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// upload replaces the vertex data, orphaning the old store.
func upload(b *meshBuffers, vertices []float32, usage uint32) {
	if len(vertices) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), usage)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	b.vertexBytes = len(vertices) * floatSize
}

// UploadCloth streams the cloth vertices; call once per frame.
func (r *Renderer) UploadCloth(cm *mesh.ClothMesh) {
	upload(&r.cloth, cm.Vertices, gl.STREAM_DRAW)
}

// UploadSpheres replaces the obstacle vertices; call after a reset.
func (r *Renderer) UploadSpheres(sm *mesh.SphereMesh) {
	upload(&r.spheres, sm.Vertices, gl.STATIC_DRAW)
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.cloth.delete()
	r.spheres.delete()
	if r.boundsVAO != 0 {
		gl.DeleteVertexArrays(1, &r.boundsVAO)
	}
	if r.boundsVBO != 0 {
		gl.DeleteBuffers(1, &r.boundsVBO)
	}
	r.lit.Delete()
	r.lines.Delete()
}

// Resize handles drawable size changes.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the drawable width/height ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene draws the cloth and the obstacles.
func (r *Renderer) DrawScene(v View) {
	r.lit.Use()
	r.lit.SetMat4("view", v.View)
	r.lit.SetMat4("projection", v.Projection)
	light := r.config.Light
	r.lit.SetVec3("lightPos", light.Position)
	r.lit.SetVec3("lightColor", light.Color)
	r.lit.SetFloat("ambientStrength", light.Ambient)
	r.lit.SetFloat("specularStrength", light.Specular)
	r.lit.SetFloat("shininess", light.Shininess)
	r.lit.SetVec3("viewPos", v.Eye)

	if r.cloth.indexCount > 0 && r.cloth.vertexBytes > 0 {
		r.lit.SetFloat("useVertexColor", 1)
		r.lit.SetFloat("twoSided", 1)
		gl.BindVertexArray(r.cloth.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, r.cloth.indexCount, gl.UNSIGNED_INT, 0)
	}

	if r.spheres.indexCount > 0 && r.spheres.vertexBytes > 0 {
		r.lit.SetFloat("useVertexColor", 0)
		r.lit.SetFloat("twoSided", 0)
		r.lit.SetVec3("objectColor", SphereColor)
		gl.BindVertexArray(r.spheres.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, r.spheres.indexCount, gl.UNSIGNED_INT, 0)
	}

	gl.BindVertexArray(0)
}

// DrawBounds outlines the box [lo, hi].
func (r *Renderer) DrawBounds(v View, lo, hi math.Vec3) {
	r.boundsScratch = debug.BoxLines(r.boundsScratch[:0], lo, hi)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.boundsVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.boundsScratch)*floatSize, gl.Ptr(r.boundsScratch))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.lines.Use()
	r.lines.SetMat4("view", v.View)
	r.lines.SetMat4("projection", v.Projection)
	r.lines.SetVec3("lineColor", BoundsColor)
	gl.BindVertexArray(r.boundsVAO)
	gl.DrawArrays(gl.LINES, 0, debug.BoxLineVertices)
	gl.BindVertexArray(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
