//go:build windows

package block

import "fmt"

// OpenMapped is unavailable on windows; Open always falls back to OpenPositional.
func OpenMapped(path string) (*MappedSource, error) {
	return nil, fmt.Errorf("block: memory-mapped source not supported on windows")
}

type MappedSource struct{}

func (s *MappedSource) Size() uint64               { return 0 }
func (s *MappedSource) IsMapped() bool              { return true }
func (s *MappedSource) ReadAt(uint64, []byte) (int, error) { return 0, fmt.Errorf("block: unreachable") }
func (s *MappedSource) Close() error                { return nil }
