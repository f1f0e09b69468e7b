//go:build opencv

package main

import (
	// registers the opencv segmentation backend.
	_ "go.viam.com/colortrack/vision/segmentation/cvsegmenter"
)
