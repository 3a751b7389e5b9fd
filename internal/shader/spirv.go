package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// CompileSPIRV translates the named program's WGSL into SPIR-V words.
func CompileSPIRV(name string) ([]uint32, error) {
	p, err := Load(name)
	if err != nil {
		return nil, err
	}
	spirvBytes, err := naga.Compile(p.WGSL)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", name, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compiling %s: SPIR-V length %d is not word aligned", name, len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
