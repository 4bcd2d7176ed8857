package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/internal/resource"
	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

func newLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib := library.New()
	require.NoError(t, resource.Register(lib))
	return lib
}

func vectorFactory(tag string) types.Factory {
	return resource.BasicFactory(tag, func() types.Value { return new(model.Vector) })
}

func TestRegister(t *testing.T) {
	text := func(ext string) library.Extension { return library.Extension{Ext: ext, Format: types.FormatText} }

	tests := []struct {
		name    string
		tag     string
		factory types.Factory
		exts    []library.Extension
		wantErr error
	}{
		{"new type", "Speed", vectorFactory("Speed"), []library.Extension{text(".speed")}, nil},
		{"duplicate tag", "Config", vectorFactory("Config"), nil, types.ErrDuplicateType},
		{"duplicate extension", "Gain", vectorFactory("Gain"), []library.Extension{text(".CONFIG")}, types.ErrDuplicateType},
		{"empty tag", "", vectorFactory(""), nil, types.ErrUnknownType},
		{"tag with space", "Two Words", vectorFactory("Two Words"), nil, types.ErrUnknownType},
		{"nil factory", "Nothing", nil, nil, types.ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := library.New()
			require.NoError(t, lib.Register("Config", vectorFactory("Config"), text(".config")))
			err := lib.Register(tt.tag, tt.factory, tt.exts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, []string{"Config"}, lib.Types())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"Config", tt.tag}, lib.Types())
			assert.Equal(t, tt.exts, lib.Extensions(tt.tag))
		})
	}
}

func TestFreeze(t *testing.T) {
	lib := library.New()
	assert.False(t, lib.Frozen())
	lib.Freeze()
	assert.True(t, lib.Frozen())
	assert.ErrorIs(t, lib.Register("Speed", vectorFactory("Speed")), types.ErrRegistryFrozen)
}

func TestMake(t *testing.T) {
	lib := newLibrary(t)
	for _, tag := range lib.Types() {
		r, err := lib.Make(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, r.Type())
	}
	_, err := lib.Make("Banana")
	assert.ErrorIs(t, err, types.ErrUnknownType)
}

func TestWorkingSet(t *testing.T) {
	lib := newLibrary(t)

	q1 := resource.MakeConfig("home", model.Vector{0})
	q2 := resource.MakeConfig("away", model.Vector{1})
	v := resource.MakeVector("home", model.Vector{2})
	for _, r := range []types.Resource{q1, q2, v} {
		require.NoError(t, lib.Add(r))
	}
	assert.Equal(t, 3, lib.Len())
	assert.Equal(t, []types.Resource{q1, q2}, lib.OfType(types.TypeConfig))
	assert.Empty(t, lib.OfType(types.TypeWorld))

	got, err := lib.Lookup(types.TypeConfig, "home")
	require.NoError(t, err)
	assert.Same(t, q1, got)

	// Names are scoped by type.
	got, err = lib.Lookup(types.TypeVector, "home")
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = lib.Lookup(types.TypeConfig, "nowhere")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, lib.Add(resource.MakeConfig("home", model.Vector{3})))
	_, err = lib.Lookup(types.TypeConfig, "home")
	assert.ErrorIs(t, err, types.ErrAmbiguousName)

	require.NoError(t, lib.Remove(types.TypeConfig, "home"))
	assert.Equal(t, 2, lib.Len())
	assert.ErrorIs(t, lib.Remove(types.TypeConfig, "home"), types.ErrNotFound)
	assert.Equal(t, []types.Resource{q2, v}, lib.All())
}

func TestAddRejects(t *testing.T) {
	lib := newLibrary(t)
	assert.ErrorIs(t, lib.Add(resource.MakeConfig("", nil)), types.ErrInvalidName)
	assert.ErrorIs(t, lib.Add(resource.MakeConfig("two words", nil)), types.ErrInvalidName)

	stranger := resource.NewBasic("Stranger", func() types.Value { return new(model.Vector) })
	stranger.SetName("x")
	assert.ErrorIs(t, lib.Add(stranger), types.ErrUnknownType)
	assert.Zero(t, lib.Len())
}

func TestEncodeDecode(t *testing.T) {
	lib := newLibrary(t)

	path := resource.MakeLinearPath("walk", []float64{0, 1}, []model.Vector{{0}, {1}})
	format, data, err := library.Encode(path)
	require.NoError(t, err)
	assert.Equal(t, types.FormatText, format)

	back, err := lib.Decode(types.TypeLinearPath, "walk", format, data)
	require.NoError(t, err)
	assert.Equal(t, "walk", back.Name())
	assert.True(t, path.Equal(back))

	world := resource.MakeWorld("scene", model.World{Robots: []model.RobotEntry{{Name: "arm", Config: model.Vector{0}}}})
	format, _, err = library.Encode(world)
	require.NoError(t, err)
	assert.Equal(t, types.FormatMarkup, format)

	_, err = lib.Decode(types.TypeConfig, "q", types.FormatText, []byte("2 1"))
	assert.ErrorIs(t, err, types.ErrMalformed)
	_, err = lib.Decode("Banana", "q", types.FormatText, nil)
	assert.ErrorIs(t, err, types.ErrUnknownType)
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	lib := newLibrary(t)

	tests := []struct {
		file string
		res  types.Resource
	}{
		{"walk.path", resource.MakeLinearPath("walk", []float64{0, 1}, []model.Vector{{0, 0}, {1, 1}})},
		{"home.config", resource.MakeConfig("home", model.Vector{0, 0.5})},
		{"route.multipath", resource.MakeMultiPath("route", model.MultiPath{Sections: []model.PathSection{{Milestones: []model.Vector{{0}}}}})},
		{"floor.off", resource.MakeTriMesh("floor", model.TriMesh{
			Vertices:  []model.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Triangles: []model.Triangle{{0, 1, 2}},
		})},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, lib.SaveFile(tt.res, path))
			got, err := lib.LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.res.Type(), got.Type())
			assert.Equal(t, tt.res.Name(), got.Name())
			assert.True(t, tt.res.Equal(got))
		})
	}
	assert.Equal(t, len(tests), lib.Len())
}

func TestDocumentEnvelope(t *testing.T) {
	dir := t.TempDir()
	lib := newLibrary(t)

	grasp := resource.MakeGrasp("pinch", model.Grasp{
		ObjectIndex: 1,
		Holds: []model.Hold{{
			Link: "finger",
			IK:   model.FreeGoal("finger"),
		}},
	})
	path := filepath.Join(dir, "saved.yaml")
	require.NoError(t, lib.SaveFile(grasp, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "type: Grasp")
	assert.Contains(t, string(raw), "name: pinch")

	got, err := lib.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pinch", got.Name(), "envelope name wins over file name")
	assert.True(t, grasp.Equal(got))
}

func TestDocumentEnvelopeWithoutName(t *testing.T) {
	dir := t.TempDir()
	lib := newLibrary(t)
	path := filepath.Join(dir, "home.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: Config\nvalue: [0, 1.5]\n"), 0o644))

	got, err := lib.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "home", got.Name())
	q, ok := resource.ValueOf[*model.Vector](got)
	require.True(t, ok)
	assert.Equal(t, model.Vector{0, 1.5}, *q)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	lib := newLibrary(t)

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"unknown extension", write("notes.txt", "hello"), types.ErrUnknownFile},
		{"malformed text", write("bad.config", "3 1"), types.ErrMalformed},
		{"envelope without type", write("notype.yaml", "value: [1]\n"), types.ErrMalformed},
		{"envelope without value", write("novalue.yaml", "type: Config\n"), types.ErrMalformed},
		{"envelope of unknown type", write("banana.yaml", "type: Banana\nvalue: 1\n"), types.ErrUnknownType},
		{"not yaml", write("garbage.yaml", "type: [unclosed\n"), types.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.LoadFile(tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, lib.Len())

	_, err := lib.LoadFile(filepath.Join(dir, "missing.config"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveFileRejectsForeignExtension(t *testing.T) {
	lib := newLibrary(t)
	q := resource.MakeConfig("home", model.Vector{0})
	err := lib.SaveFile(q, filepath.Join(t.TempDir(), "home.path"))
	assert.ErrorIs(t, err, types.ErrUnknownFile)
	err = lib.SaveFile(q, filepath.Join(t.TempDir(), "home.unknown"))
	assert.ErrorIs(t, err, types.ErrUnknownFile)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	lib := newLibrary(t)

	require.NoError(t, lib.SaveFile(resource.MakeConfig("a", model.Vector{1}), filepath.Join(dir, "a.config")))
	require.NoError(t, lib.SaveFile(resource.MakeVector("b", model.Vector{2}), filepath.Join(dir, "b.vector")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# notes"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	fresh := newLibrary(t)
	got, err := fresh.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name())
	assert.Equal(t, types.TypeVector, got[1].Type())
	assert.Equal(t, 2, fresh.Len())

	_, err = fresh.LoadDir(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}
