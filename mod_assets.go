package shaderlab

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"

	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/opengl"
	"github.com/gekko3d/shaderlab/render/shaders"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type AssetId string

type ShaderAsset struct {
	Name     string
	FromDisk bool
	Source   opengl.Source
}

// AssetServer resolves media files below a root directory. Shader pairs
// missing on disk fall back to the embedded copies.
type AssetServer struct {
	media fs.FS
	root  string

	shaders  map[AssetId]ShaderAsset
	textures map[AssetId]*core.Texture
	meshes   map[AssetId]*core.Mesh
}

func NewAssetServer(root string) *AssetServer {
	return NewAssetServerFS(root, os.DirFS(root))
}

func NewAssetServerFS(root string, media fs.FS) *AssetServer {
	return &AssetServer{
		media:    media,
		root:     root,
		shaders:  make(map[AssetId]ShaderAsset),
		textures: make(map[AssetId]*core.Texture),
		meshes:   make(map[AssetId]*core.Mesh),
	}
}

func (server *AssetServer) Root() string {
	return server.root
}

// LoadShader reads <root>/shaders/<name>VertexShader.glsl and its fragment
// pair. When either file is missing the embedded pair is used.
func (server *AssetServer) LoadShader(name string) (AssetId, ShaderAsset, error) {
	vertPath := path.Join("shaders", shaders.VertexFile(name))
	fragPath := path.Join("shaders", shaders.FragmentFile(name))

	asset := ShaderAsset{Name: name, FromDisk: true}
	var vert, frag string
	dir, err := fs.Sub(server.media, "shaders")
	if err == nil {
		vert, frag, err = shaders.SourceFrom(dir, name)
	}
	if errors.Is(err, fs.ErrNotExist) {
		asset.FromDisk = false
		vert, frag, err = shaders.Source(name)
	}
	if err != nil {
		return "", ShaderAsset{}, fmt.Errorf("load shader %s: %w", name, err)
	}

	origin := server.root
	if !asset.FromDisk {
		origin = "embedded"
	}
	asset.Source = opengl.Source{
		Name:         name,
		VertexPath:   path.Join(origin, vertPath),
		FragmentPath: path.Join(origin, fragPath),
		Vertex:       vert,
		Fragment:     frag,
	}
	id := makeAssetId()
	server.shaders[id] = asset
	return id, asset, nil
}

func (server *AssetServer) Shader(id AssetId) (ShaderAsset, bool) {
	s, ok := server.shaders[id]
	return s, ok
}

// LoadTexture decodes an image below the media root into RGBA8.
func (server *AssetServer) LoadTexture(name string) (AssetId, *core.Texture, error) {
	file, err := server.media.Open(name)
	if err != nil {
		return "", nil, fmt.Errorf("load texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", nil, fmt.Errorf("decode texture %s: %w", name, err)
	}

	id, tex := server.CreateTexture(name, img)
	return id, tex, nil
}

func (server *AssetServer) CreateTexture(name string, img image.Image) (AssetId, *core.Texture) {
	bounds := img.Bounds()

	// Convert to RGBA if needed
	rgbaImg, ok := img.(*image.RGBA)
	if !ok || rgbaImg.Stride != bounds.Dx()*4 {
		rgbaImg = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgbaImg, rgbaImg.Bounds(), img, bounds.Min, draw.Src)
	}

	tex := &core.Texture{
		Name:   name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    rgbaImg.Pix,
	}
	id := makeAssetId()
	server.textures[id] = tex
	return id, tex
}

func (server *AssetServer) Texture(id AssetId) (*core.Texture, bool) {
	t, ok := server.textures[id]
	return t, ok
}

func (server *AssetServer) AddMesh(m *core.Mesh) AssetId {
	id := makeAssetId()
	server.meshes[id] = m
	return id
}

func (server *AssetServer) Mesh(id AssetId) (*core.Mesh, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

// ReadFile reads a file below the media root.
func (server *AssetServer) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(server.media, name)
}

type AssetServerModule struct{}

func (AssetServerModule) Step() string { return "assets" }

func (AssetServerModule) Install(app *App, cmd *Commands) error {
	root := DefaultConfig().MediaRoot
	if cfg, ok := Resource[Config](app); ok {
		root = cfg.MediaRoot
	}
	cmd.AddResources(NewAssetServer(root))
	return nil
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
