package asset

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var mtlTextureSlots = map[string]TextureType{
	"map_kd":   TextureDiffuse,
	"map_ks":   TextureSpecular,
	"map_bump": TextureNormal,
	"bump":     TextureNormal,
	"norm":     TextureNormal,
	"map_ka":   TextureHeight,
	"disp":     TextureHeight,
}

// mtlOptionArgs is the number of arguments taken by each map option.
var mtlOptionArgs = map[string]int{
	"-blendu": 1, "-blendv": 1, "-bm": 1, "-boost": 1, "-cc": 1,
	"-clamp": 1, "-imfchan": 1, "-texres": 1, "-type": 1,
	"-mm": 2, "-o": 3, "-s": 3, "-t": 3,
}

func (b *objBuilder) loadMTL(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "material library")
	}
	defer f.Close()

	return b.decodeMTL(f)
}

func (b *objBuilder) decodeMTL(r io.Reader) error {
	var current *Material
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])

		if key == "newmtl" {
			name := strings.Join(fields[1:], " ")
			current = NewMaterial(name)
			b.materials[name] = len(b.scene.Materials)
			b.scene.Materials = append(b.scene.Materials, current)
			continue
		}
		slot, ok := mtlTextureSlots[key]
		if !ok || current == nil {
			continue
		}
		if file := mtlMapFile(fields[1:]); file != "" {
			current.AddTexture(slot, file)
		}
	}
	return errors.Wrap(sc.Err(), "read material library")
}

// mtlMapFile skips map options and returns the file name, which may
// contain spaces.
func mtlMapFile(args []string) string {
	i := 0
	for i < len(args) {
		n, ok := mtlOptionArgs[strings.ToLower(args[i])]
		if !ok {
			break
		}
		i += 1 + n
	}
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}
