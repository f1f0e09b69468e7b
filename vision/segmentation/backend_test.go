package segmentation

import (
	"image"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/utils"
)

type fakeSegmenter struct {
	color ColorName
}

func (f *fakeSegmenter) Mask(image.Image) *mat.Dense { return nil }

func (f *fakeSegmenter) Segment(image.Image) []Region { return []Region{{Color: f.color}} }

func (f *fakeSegmenter) SegmentWithMask(img image.Image) ([]Region, *mat.Dense) {
	return f.Segment(img), nil
}

func (f *fakeSegmenter) SetColor(name string) error {
	f.color = ColorName(name)
	return nil
}

func (f *fakeSegmenter) Color() ColorName { return f.color }

func TestBackendRegistry(t *testing.T) {
	fn := func(cfg *ColorSegmenterConfig, logger logging.Logger) (Segmenter, error) {
		return &fakeSegmenter{color: ColorName(cfg.Color)}, nil
	}
	params := struct {
		VariableOne int    `json:"int_var"`
		VariableTwo string `json:"string_var"`
	}{}
	fnName := "x"
	// no constructor
	test.That(t, func() { RegisterBackend(fnName, Registration{nil, nil}) }, test.ShouldPanic)
	// success
	RegisterBackend(fnName, Registration{fn, utils.JSONTags(params)})
	// look up
	creator, err := BackendLookup(fnName)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, creator.Parameters, test.ShouldResemble, []utils.TypedName{{"int_var", "int"}, {"string_var", "string"}})
	creator, err = BackendLookup("z")
	test.That(t, err.Error(), test.ShouldContainSubstring, "no segmentation backend with name")
	test.That(t, creator, test.ShouldBeNil)
	// duplicate
	test.That(t, func() { RegisterBackend(fnName, Registration{fn, utils.JSONTags(params)}) }, test.ShouldPanic)

	seg, err := NewSegmenter(fnName, &ColorSegmenterConfig{Color: "teal"}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seg.Color(), test.ShouldEqual, ColorName("teal"))
	test.That(t, Backends(), test.ShouldContain, fnName)
	test.That(t, Backends(), test.ShouldContain, NativeBackend)
}

func TestNewSegmenterNative(t *testing.T) {
	seg, err := NewSegmenter("", &ColorSegmenterConfig{Color: "green"}, nil)
	test.That(t, err, test.ShouldBeNil)
	_, ok := seg.(*ColorSegmenter)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, seg.Color(), test.ShouldEqual, ColorGreen)

	_, err = NewSegmenter(NativeBackend, &ColorSegmenterConfig{Color: "mauve"}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "create native segmenter")

	_, err = NewSegmenter("tensor", nil, nil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"tensor"`)

	reg, err := BackendLookup(NativeBackend)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reg.Parameters[0].Name, test.ShouldEqual, "color")
}
