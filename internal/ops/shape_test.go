package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/sketchcad/internal/config"
	"github.com/hpungsan/sketchcad/internal/errors"
	"github.com/hpungsan/sketchcad/internal/mesh"
)

func intPtr(v int) *int { return &v }

func TestCreateCube(t *testing.T) {
	s := newTestSession(t)

	out, err := CreateCube(s, CreateCubeInput{Size: 2, Divisions: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, mesh.ShapeCube, out.Shape.Kind)
	assert.Equal(t, 12, out.Facets)

	out, err = CreateCube(s, CreateCubeInput{Size: 3, Divisions: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 6*2*16, out.Facets)
}

func TestCreateCube_DefaultDivisionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CubeDivisions = 3
	s := NewSession(cfg, nil)

	out, err := CreateCube(s, CreateCubeInput{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Shape.Divisions)
}

func TestCreateCube_OutOfRangeKeepsShape(t *testing.T) {
	s := newTestSession(t)
	_, err := CreateSphere(s, CreateSphereInput{Radius: 1, Divisions: intPtr(8)})
	require.NoError(t, err)

	tests := []CreateCubeInput{
		{Size: 0},
		{Size: -1},
		{Size: 1, Divisions: intPtr(0)},
		{Size: 1, Divisions: intPtr(101)},
	}
	for _, in := range tests {
		_, err := CreateCube(s, in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrOutOfRange), "input %+v", in)
	}

	assert.Equal(t, mesh.ShapeSphere, s.shape.Shape().Kind)
}

func TestCreateSphere(t *testing.T) {
	s := newTestSession(t)

	out, err := CreateSphere(s, CreateSphereInput{Radius: 1, LatDivisions: intPtr(2), LonDivisions: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 8, out.Facets)

	out, err = CreateSphere(s, CreateSphereInput{Radius: 2, Divisions: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Shape.LatDivisions)
	assert.Equal(t, 10, out.Shape.LonDivisions)
}

func TestCreateSphere_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SphereDivisions = 12
	s := NewSession(cfg, nil)

	out, err := CreateSphere(s, CreateSphereInput{Radius: 1})
	require.NoError(t, err)
	assert.Equal(t, 12, out.Shape.LatDivisions)
	assert.Equal(t, 12, out.Shape.LonDivisions)

	out, err = CreateSphere(s, CreateSphereInput{Radius: 1, LonDivisions: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 12, out.Shape.LatDivisions)
	assert.Equal(t, 5, out.Shape.LonDivisions)
}

func TestCreateSphere_Errors(t *testing.T) {
	s := newTestSession(t)

	tests := []struct {
		name string
		in   CreateSphereInput
		code errors.ErrorCode
	}{
		{"zero radius", CreateSphereInput{Radius: 0}, errors.ErrOutOfRange},
		{"single divisions below 3", CreateSphereInput{Radius: 1, Divisions: intPtr(2)}, errors.ErrOutOfRange},
		{"single divisions above 100", CreateSphereInput{Radius: 1, Divisions: intPtr(101)}, errors.ErrOutOfRange},
		{"latitude below 2", CreateSphereInput{Radius: 1, LatDivisions: intPtr(1)}, errors.ErrOutOfRange},
		{"longitude below 3", CreateSphereInput{Radius: 1, LonDivisions: intPtr(2)}, errors.ErrOutOfRange},
		{"mixed forms", CreateSphereInput{Radius: 1, Divisions: intPtr(5), LatDivisions: intPtr(5)}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateSphere(s, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	assert.False(t, s.shape.HasShape())
}

func TestShapeDoesNotTouchHistory(t *testing.T) {
	s := newTestSession(t)
	_, err := CreateCube(s, CreateCubeInput{Size: 1})
	require.NoError(t, err)

	_, err = Undo(s)
	assert.True(t, errors.Is(err, errors.ErrNothingToUndo))
}

func TestCreateCube_ExplicitDivisionsBecomeDefault(t *testing.T) {
	s := newTestSession(t)

	_, err := CreateCube(s, CreateCubeInput{Size: 1, Divisions: intPtr(4)})
	require.NoError(t, err)

	out, err := CreateCube(s, CreateCubeInput{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Shape.Divisions)
	assert.Equal(t, 6*2*16, out.Facets)

	// A rejected count does not replace the default.
	_, err = CreateCube(s, CreateCubeInput{Size: 1, Divisions: intPtr(0)})
	require.Error(t, err)
	out, err = CreateCube(s, CreateCubeInput{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Shape.Divisions)
}

func TestCreateSphere_ExplicitDivisionsBecomeDefault(t *testing.T) {
	s := newTestSession(t)

	_, err := CreateSphere(s, CreateSphereInput{Radius: 1, Divisions: intPtr(8)})
	require.NoError(t, err)
	out, err := CreateSphere(s, CreateSphereInput{Radius: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, out.Shape.LatDivisions)
	assert.Equal(t, 8, out.Shape.LonDivisions)

	_, err = CreateSphere(s, CreateSphereInput{Radius: 1, LatDivisions: intPtr(5)})
	require.NoError(t, err)
	out, err = CreateSphere(s, CreateSphereInput{Radius: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Shape.LatDivisions)
	assert.Equal(t, 8, out.Shape.LonDivisions)
}

func TestSetCubeDivisions(t *testing.T) {
	s := newTestSession(t)
	_, err := CreateCube(s, CreateCubeInput{Size: 1})
	require.NoError(t, err)

	out, err := SetCubeDivisions(s, SetCubeDivisionsInput{Divisions: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out.CubeDivisions)
	assert.Equal(t, 30, out.LatDivisions)

	// The existing shape is left as it was.
	assert.Equal(t, 1, s.shape.Shape().Divisions)

	cube, err := CreateCube(s, CreateCubeInput{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, cube.Shape.Divisions)

	for _, d := range []int{0, 101} {
		_, err := SetCubeDivisions(s, SetCubeDivisionsInput{Divisions: d})
		assert.True(t, errors.Is(err, errors.ErrOutOfRange), "divisions %d", d)
	}
	assert.Equal(t, 3, s.divisions().CubeDivisions)
}

func TestSetSphereDivisions(t *testing.T) {
	s := newTestSession(t)

	out, err := SetSphereDivisions(s, SetSphereDivisionsInput{LatDivisions: 2, LonDivisions: 4})
	require.NoError(t, err)
	assert.Equal(t, DivisionsOutput{CubeDivisions: 1, LatDivisions: 2, LonDivisions: 4}, *out)

	sphere, err := CreateSphere(s, CreateSphereInput{Radius: 1})
	require.NoError(t, err)
	assert.Equal(t, 8, sphere.Facets)

	tests := []SetSphereDivisionsInput{
		{LatDivisions: 1, LonDivisions: 4},
		{LatDivisions: 101, LonDivisions: 4},
		{LatDivisions: 4, LonDivisions: 2},
		{LatDivisions: 4, LonDivisions: 101},
	}
	for _, in := range tests {
		_, err := SetSphereDivisions(s, in)
		assert.True(t, errors.Is(err, errors.ErrOutOfRange), "input %+v", in)
	}
	assert.Equal(t, 2, s.divisions().LatDivisions)
	assert.Equal(t, 4, s.divisions().LonDivisions)
}

func TestInspect_ReportsDefaultDivisions(t *testing.T) {
	s := newTestSession(t)
	_, err := SetCubeDivisions(s, SetCubeDivisionsInput{Divisions: 7})
	require.NoError(t, err)

	out, err := Inspect(s)
	require.NoError(t, err)
	assert.Equal(t, DivisionsOutput{CubeDivisions: 7, LatDivisions: 30, LonDivisions: 30}, out.Defaults)
}
