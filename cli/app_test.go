package cli

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/colortrack/rimage"
)

type testWriter struct {
	messages []string
}

func (tw *testWriter) Write(b []byte) (int, error) {
	tw.messages = append(tw.messages, string(b))
	return len(b), nil
}

func (tw *testWriter) String() string {
	return strings.Join(tw.messages, "")
}

func runApp(t *testing.T, args ...string) (*testWriter, *testWriter, error) {
	t.Helper()
	out, errOut := &testWriter{}, &testWriter{}
	err := NewApp(out, errOut).Run(append([]string{"colortrack"}, args...))
	return out, errOut, err
}

// writeRedFrame writes a 60x50 white frame with a red 30x20 rectangle at (10, 10).
func writeRedFrame(t *testing.T, dir string) string {
	t.Helper()
	img := rimage.NewImage(60, 50)
	img.FillRect(img.Bounds(), rimage.White)
	img.FillRect(image.Rect(10, 10, 40, 30), rimage.Red)
	fn := filepath.Join(dir, "frame.png")
	test.That(t, rimage.WriteImageToFile(fn, img), test.ShouldBeNil)
	return fn
}

func TestColorsAction(t *testing.T) {
	out, errOut, err := runApp(t, "colors")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut.messages, test.ShouldBeEmpty)
	test.That(t, out.messages, test.ShouldHaveLength, 1)
	test.That(t, out.messages[0], test.ShouldContainSubstring, "red")
	test.That(t, out.messages[0], test.ShouldContainSubstring, "(0,100,100)")
	test.That(t, out.messages[0], test.ShouldContainSubstring, "(160,100,100)")
	test.That(t, out.messages[0], test.ShouldContainSubstring, "black")

	out, _, err = runApp(t, "colors", "--hex", "#00ff00", "--tolerance", "0.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.messages[0], test.ShouldContainSubstring, "#00ff00")
	test.That(t, out.messages[0], test.ShouldContainSubstring, "(15,50,50)")
	test.That(t, out.messages[0], test.ShouldContainSubstring, "(105,255,255)")

	_, _, err = runApp(t, "colors", "--hex", "#808080")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "has no hue")
}

func TestDetectActionJSON(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)

	out, _, err := runApp(t, "detect", "--image", fn, "--color", "red", "--min-area", "10", "--format", "json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.messages, test.ShouldHaveLength, 1)

	var records []map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out.messages[0]), &records), test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 1)
	test.That(t, records[0]["source"], test.ShouldEqual, "color")
	test.That(t, records[0]["color"], test.ShouldEqual, "red")
	test.That(t, records[0]["box"], test.ShouldResemble, []interface{}{10.0, 10.0, 40.0, 30.0})
	test.That(t, records[0]["center"], test.ShouldResemble, []interface{}{25.0, 20.0})
	test.That(t, records[0]["area"], test.ShouldEqual, 600.0)

	out, _, err = runApp(t, "detect", "--image", fn, "--color", "blue", "--format", "json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.TrimSpace(out.messages[0]), test.ShouldEqual, "[]")
}

func TestDetectActionJSONWithDraw(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)
	annotated := filepath.Join(dir, "annotated.png")

	out, errOut, err := runApp(t, "detect", "--image", fn, "--min-area", "10", "--format", "json",
		"--draw", "--out", annotated)
	test.That(t, err, test.ShouldBeNil)
	var records []map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out.String()), &records), test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 1)
	test.That(t, errOut.String(), test.ShouldContainSubstring, "wrote annotated frame")
}

func TestDetectActionWithDetections(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)
	detFile := filepath.Join(dir, "dets.json")
	test.That(t, os.WriteFile(detFile, []byte(`[
		{"label": "cup", "confidence": 0.9, "box": [0, 0, 6, 4]},
		{"label": "cup", "confidence": 0.2, "box": [50, 40, 60, 50]}
	]`), 0o600), test.ShouldBeNil)
	annotated := filepath.Join(dir, "annotated.png")

	out, errOut, err := runApp(t, "detect", "--image", fn, "--detections", detFile, "--mode", "both",
		"--min-confidence", "0.5", "--min-area", "100", "--draw", "--out", annotated)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut.String(), test.ShouldContainSubstring, "wrote annotated frame to "+annotated)
	test.That(t, out.String(), test.ShouldNotContainSubstring, "wrote annotated frame")
	text := out.String()
	test.That(t, text, test.ShouldContainSubstring, "Mode: both | Target Color: RED")
	test.That(t, text, test.ShouldContainSubstring, "Detector: 1 | Color: 1")
	test.That(t, text, test.ShouldContainSubstring, "Detected: cup (0.90) | Center: (3, 2) | BBox: [0, 0, 6, 4]")
	test.That(t, text, test.ShouldContainSubstring, "RED object | Center: (25, 20) | Area: 600 px²")
	test.That(t, strings.Index(text, "Detected: cup"), test.ShouldBeLessThan, strings.Index(text, "RED object"))

	img, err := rimage.ReadImageFromFile(annotated)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 60, 50))

	out, _, err = runApp(t, "detect", "--image", fn, "--detections", detFile, "--mode", "detector", "--format", "table")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "cup")
	test.That(t, out.String(), test.ShouldContainSubstring, "TOTAL")
}

func TestDetectActionErrors(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)

	_, _, err := runApp(t, "detect")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "image")

	_, _, err = runApp(t, "detect", "--image", fn, "--mode", "detector")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "needs a detector")

	_, _, err = runApp(t, "detect", "--image", fn, "--format", "xml")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown format")

	_, _, err = runApp(t, "detect", "--image", fn, "--draw")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--out")

	_, _, err = runApp(t, "detect", "--image", fn, "--color", "teal")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `unknown color "teal"`)

	_, _, err = runApp(t, "detect", "--image", fn, "--threshold", "30")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--detector simple")

	_, _, err = runApp(t, "detect", "--image", filepath.Join(dir, "missing.png"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDetectActionConfigFile(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)
	cfgFile := filepath.Join(dir, "colortrack.json")
	test.That(t, os.WriteFile(cfgFile, []byte(`{"mode": "color", "segmenter": {"color": "blue"}}`), 0o600), test.ShouldBeNil)

	out, _, err := runApp(t, "detect", "--image", fn, "--config", cfgFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "Target Color: BLUE")
	test.That(t, out.String(), test.ShouldContainSubstring, "no objects found")

	// flags override the file
	out, _, err = runApp(t, "detect", "--image", fn, "--config", cfgFile, "--color", "red", "--min-area", "10")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "RED object")
}

func TestMaskAction(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)
	maskFile := filepath.Join(dir, "mask.png")

	out, _, err := runApp(t, "mask", "--image", fn, "--color", "red", "--out", maskFile)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.messages[0], test.ShouldContainSubstring, "red mask: 600 foreground pixels")

	img, err := rimage.ReadImageFromFile(maskFile)
	test.That(t, err, test.ShouldBeNil)
	gray := func(x, y int) uint8 {
		return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
	}
	test.That(t, gray(20, 20), test.ShouldEqual, uint8(255))
	test.That(t, gray(0, 0), test.ShouldEqual, uint8(0))
	test.That(t, gray(45, 20), test.ShouldEqual, uint8(0))

	_, _, err = runApp(t, "mask", "--image", fn, "--color", "red")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchemaAction(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.messages[0], test.ShouldContainSubstring, `"show_mask"`)

	out, _, err = runApp(t, "schema", "--segmenter")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.messages[0], test.ShouldContainSubstring, `"fill_gaps"`)
}

func TestDetectActionMaxWidth(t *testing.T) {
	dir := t.TempDir()
	fn := writeRedFrame(t, dir)

	out, _, err := runApp(t, "detect", "--image", fn, "--min-area", "10", "--max-width", "30", "--format", "json")
	test.That(t, err, test.ShouldBeNil)
	var records []map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out.messages[0]), &records), test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 1)
	// the 60x50 frame is halved, so the 30x20 rectangle becomes roughly 15x10
	box, ok := records[0]["box"].([]interface{})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, box[0], test.ShouldAlmostEqual, 5.0, 1)
	test.That(t, box[2], test.ShouldAlmostEqual, 20.0, 1)

	_, _, err = runApp(t, "detect", "--image", fn, "--max-width", "-5")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_width")
}

func TestPrintHelpers(t *testing.T) {
	w := &testWriter{}
	warningf(w, "--%s is ignored", generalFlagOut)
	test.That(t, w.String(), test.ShouldContainSubstring, "Warning: ")
	test.That(t, w.String(), test.ShouldEndWith, "--out is ignored\n")

	w = &testWriter{}
	Errorf(w, "bad %s", "frame")
	test.That(t, w.String(), test.ShouldContainSubstring, "Error: ")
	test.That(t, w.String(), test.ShouldEndWith, "bad frame\n")
}
