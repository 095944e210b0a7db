package renderer

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"solar-system/internal/animation"
	"solar-system/internal/config"
	"solar-system/internal/graphics"
	"solar-system/internal/meshing"
	"solar-system/internal/profiling"
)

// Vertex attribute locations, matching solar.vert
const (
	attribPosition = 0
	attribTexCoord = 1
	attribNormal   = 2
)

type vertexAttrib struct {
	loc    uint32
	size   int32
	offset int // in floats from the start of the vertex
}

// vertexAttribs describes the meshing.Sphere.Interleaved layout
var vertexAttribs = []vertexAttrib{
	{attribPosition, 3, 0},
	{attribTexCoord, 2, 3},
	{attribNormal, 3, 5},
}

// GLRenderer draws every body as the shared sphere with Phong lighting
type GLRenderer struct {
	settings config.Settings
	sphere   *meshing.Sphere
	textures TextureSource

	shader *graphics.Shader
	camera *graphics.Camera

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	width, height int
}

var (
	_ Renderer      = (*GLRenderer)(nil)
	_ TextureSource = (*graphics.TextureManager)(nil)
)

// NewGLRenderer prepares a renderer; GL objects are created by Init
func NewGLRenderer(s config.Settings, sphere *meshing.Sphere, textures TextureSource, width, height int) *GLRenderer {
	return &GLRenderer{
		settings: s,
		sphere:   sphere,
		textures: textures,
		camera:   graphics.NewCamera(width, height, s),
		width:    width,
		height:   height,
	}
}

// Init compiles the shader and uploads the sphere
func (r *GLRenderer) Init() error {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	shader, err := graphics.LoadShader(r.settings.ShaderDir, graphics.SolarVertShader, graphics.SolarFragShader)
	if err != nil {
		return fmt.Errorf("solar shader: %w", err)
	}
	r.shader = shader

	r.uploadSphere()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("sphere upload: gl error 0x%x", code)
	}
	slog.Debug("sphere uploaded", "precision", r.sphere.Precision,
		"vertices", r.sphere.VertexCount(), "indices", r.sphere.IndexCount())
	return nil
}

func (r *GLRenderer) uploadSphere() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	vertices := r.sphere.Interleaved()
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*meshing.FloatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(meshing.VertexSize * meshing.FloatSize)
	for _, a := range vertexAttribs {
		gl.VertexAttribPointerWithOffset(a.loc, a.size, gl.FLOAT, false, stride, uintptr(a.offset*meshing.FloatSize))
		gl.EnableVertexAttribArray(a.loc)
	}

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(r.sphere.Indices)*4, gl.Ptr(r.sphere.Indices), gl.STATIC_DRAW)
	r.indexCount = int32(len(r.sphere.Indices))

	gl.BindVertexArray(0)
}

// Mesh is the handle of the uploaded sphere, valid after Init
func (r *GLRenderer) Mesh() animation.MeshHandle {
	return animation.MeshHandle(r.vao)
}

// Render clears the framebuffer and draws frame's commands in order
func (r *GLRenderer) Render(frame animation.Frame) {
	defer profiling.Track("renderer.Render")()

	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.shader.Use()
	r.shader.SetMatrix4("p_matrix", r.camera.ProjectionMatrix())
	r.setLight(frame)
	r.shader.SetInt("texSampler", 0)

	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	for _, cmd := range frame.Commands {
		tex, ok := r.textures.Texture(cmd.Material.TextureID)
		if !ok {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, tex)

		r.shader.SetMatrix4("mv_matrix", cmd.ModelView)
		r.shader.SetMatrix3("norm_matrix", graphics.NormalMatrix(cmd.ModelView))
		r.shader.SetBool("isSun", cmd.IsLightSource)
		r.shader.SetFloat("shininess", cmd.Material.Shininess)

		gl.DrawElementsWithOffset(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, 0)
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *GLRenderer) setLight(frame animation.Frame) {
	l := frame.Light
	r.shader.SetVec3("lightRGB", l.Color)
	r.shader.SetFloat("ambient", l.Ambient)
	r.shader.SetFloat("diffuse", l.Diffuse)
	r.shader.SetFloat("specular", l.Specular)
	r.shader.SetFloat("linearAttenuation", l.LinearAttenuation)
	r.shader.SetVec3("lightPosition", LightViewPosition(frame))
}

// LightViewPosition transforms the light into view space
func LightViewPosition(frame animation.Frame) mgl32.Vec3 {
	return frame.View.Mul4x1(frame.Light.Position().Vec4(1)).Vec3()
}

// SetViewport resizes the GL viewport and projection
func (r *GLRenderer) SetViewport(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
}

// Dispose releases GL objects in reverse creation order
func (r *GLRenderer) Dispose() {
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.shader != nil {
		r.shader.Delete()
		r.shader = nil
	}
}
