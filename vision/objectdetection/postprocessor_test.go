package objectdetection

import (
	"image"
	"testing"

	"go.viam.com/test"
)

func testDetections() []Detection {
	return []Detection{
		NewDetection(image.Rect(0, 0, 10, 10), 0.9, "Cup"),
		NewDetection(image.Rect(0, 0, 9, 11), 0.5, "person"),
		NewDetection(image.Rect(0, 0, 30, 30), 0.2, "cup"),
	}
}

func TestAreaFilter(t *testing.T) {
	out := NewAreaFilter(100)(testDetections())
	// 99 is excluded, exactly 100 is kept
	test.That(t, out, test.ShouldHaveLength, 2)
	test.That(t, out[0].Score(), test.ShouldEqual, 0.9)
	test.That(t, out[1].Score(), test.ShouldEqual, 0.2)
}

func TestScoreFilter(t *testing.T) {
	out := NewScoreFilter(0.5)(testDetections())
	test.That(t, out, test.ShouldHaveLength, 2)
	test.That(t, out[1].Label(), test.ShouldEqual, "person")
	test.That(t, NewScoreFilter(0.95)(testDetections()), test.ShouldBeEmpty)
}

func TestLabelFilters(t *testing.T) {
	out := NewLabelFilter([]string{"CUP"})(testDetections())
	test.That(t, out, test.ShouldHaveLength, 2)
	test.That(t, NewLabelFilter(nil)(testDetections()), test.ShouldHaveLength, 3)

	out = NewLabelConfidenceFilter(map[string]float64{"cup": 0.5, "Person": 0.1})(testDetections())
	test.That(t, out, test.ShouldHaveLength, 2)
	test.That(t, out[0].Label(), test.ShouldEqual, "Cup")
	test.That(t, out[1].Label(), test.ShouldEqual, "person")
	test.That(t, NewLabelConfidenceFilter(nil)(testDetections()), test.ShouldHaveLength, 3)
}

func TestChain(t *testing.T) {
	post := Chain(NewScoreFilter(0.3), nil, NewAreaFilter(100))
	out := post(testDetections())
	test.That(t, out, test.ShouldHaveLength, 1)
	test.That(t, out[0].Label(), test.ShouldEqual, "Cup")
	test.That(t, Chain()(testDetections()), test.ShouldHaveLength, 3)
}
