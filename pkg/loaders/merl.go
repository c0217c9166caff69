package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Nuos/tray-rust/pkg/core"
	"github.com/Nuos/tray-rust/pkg/material"
)

// Channel scale factors for the MERL isotropic BRDF database
const (
	merlRedScale   = 1.0 / 1500.0
	merlGreenScale = 1.15 / 1500.0
	merlBlueScale  = 1.66 / 1500.0
)

// LoadMERL reads a measured isotropic BRDF in the MERL binary layout:
// three little-endian int32 dimensions (θh, θd, φd bin counts) followed by
// the full red, green and blue sample blocks as float64. Channel scale
// factors are applied and negative (invalid) samples are clamped to zero.
func LoadMERL(path string) (*material.MeasuredTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loaders: opening measured data: %w", err)
	}
	defer file.Close()
	reader := bufio.NewReader(file)

	var dims [3]int32
	if err := binary.Read(reader, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("loaders: reading dimensions of %s: %w", path, err)
	}
	nThetaH, nThetaD, nPhiD := int(dims[0]), int(dims[1]), int(dims[2])
	if nThetaH <= 0 || nThetaD <= 0 || nPhiD <= 0 {
		return nil, fmt.Errorf("loaders: %s has invalid dimensions %dx%dx%d", path, nThetaH, nThetaD, nPhiD)
	}
	n := nThetaH * nThetaD * nPhiD

	channels := make([][]float64, 3)
	for c := range channels {
		channels[c] = make([]float64, n)
		if err := binary.Read(reader, binary.LittleEndian, channels[c]); err != nil {
			return nil, fmt.Errorf("loaders: %s is truncated: %w", path, err)
		}
	}
	// A well-formed file ends exactly after the blue block
	if _, err := reader.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("loaders: %s has trailing data", path)
	}

	samples := make([]core.Vec3, n)
	for i := 0; i < n; i++ {
		samples[i] = core.NewVec3(
			math.Max(0, channels[0][i]*merlRedScale),
			math.Max(0, channels[1][i]*merlGreenScale),
			math.Max(0, channels[2][i]*merlBlueScale),
		)
	}

	table := &material.MeasuredTable{
		NThetaH: nThetaH,
		NThetaD: nThetaD,
		NPhiD:   nPhiD,
		Samples: samples,
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("loaders: %s: %w", path, err)
	}
	return table, nil
}
