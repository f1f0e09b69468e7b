package segmentation

import (
	"image"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/colortrack/logging"
	"go.viam.com/colortrack/utils"
)

// NativeBackend is the name of the pure Go segmentation backend.
const NativeBackend = "native"

// A Segmenter turns frames into color regions. ColorSegmenter is the native implementation.
type Segmenter interface {
	Mask(img image.Image) *mat.Dense
	Segment(img image.Image) []Region
	// SegmentWithMask is Segment that also returns the cleaned mask the regions
	// were found in, or nil for an empty frame.
	SegmentWithMask(img image.Image) ([]Region, *mat.Dense)
	SetColor(name string) error
	Color() ColorName
}

// Constructor builds a Segmenter from a config.
type Constructor func(cfg *ColorSegmenterConfig, logger logging.Logger) (Segmenter, error)

// Registration stores a segmentation backend and the config parameters it reads.
type Registration struct {
	Constructor
	Parameters []utils.TypedName
}

var (
	backendsMu sync.RWMutex
	backends   = map[string]Registration{}
)

func init() {
	RegisterBackend(NativeBackend, Registration{
		Constructor: func(cfg *ColorSegmenterConfig, logger logging.Logger) (Segmenter, error) {
			return NewColorSegmenter(cfg, logger)
		},
		Parameters: utils.JSONTags(ColorSegmenterConfig{}),
	})
}

// RegisterBackend registers a segmentation backend under name. It panics on a
// nil constructor or a duplicate name.
func RegisterBackend(name string, reg Registration) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if _, old := backends[name]; old {
		panic(errors.Errorf("trying to register two segmentation backends with same name %q", name))
	}
	if reg.Constructor == nil {
		panic(errors.Errorf("cannot register a nil constructor for segmentation backend %q", name))
	}
	backends[name] = reg
}

// BackendLookup returns the registration of a backend.
func BackendLookup(name string) (*Registration, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	reg, ok := backends[name]
	if !ok {
		return nil, errors.Errorf("no segmentation backend with name %q, available: %v", name, backendNamesLocked())
	}
	return &reg, nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	return backendNamesLocked()
}

func backendNamesLocked() []string {
	names := lo.Keys(backends)
	sort.Strings(names)
	return names
}

// NewSegmenter builds a segmenter with the named backend; an empty name selects the native one.
func NewSegmenter(backend string, cfg *ColorSegmenterConfig, logger logging.Logger) (Segmenter, error) {
	if backend == "" {
		backend = NativeBackend
	}
	reg, err := BackendLookup(backend)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("")
	}
	seg, err := reg.Constructor(cfg, logger.Sublogger(backend))
	if err != nil {
		return nil, errors.Wrapf(err, "create %s segmenter", backend)
	}
	return seg, nil
}
