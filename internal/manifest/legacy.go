package manifest

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/brickyard-pm/brickyard/internal/errs"
	"github.com/rs/zerolog/log"
)

// parseLegacy parses the deprecated key=value ".dds" manifest form. Fields:
//
//	name: <name>
//	namespace: <namespace>
//	version: <x.y.z>
//	depends: <dep-name>@<range>[, <dep-name>@<range>]*
//	test-driver: <Catch|Catch-Main>
//
// It logs a deprecation warning and returns a Manifest equivalent to what
// the JSON form would have produced.
func parseLegacy(path string, raw []byte) (*Manifest, error) {
	log.Warn().Str("path", path).Msg("package.dds is deprecated; migrate to package.json5")

	fields := map[string]string{}
	dependsRaw := ""
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return nil, errs.New(errs.InvalidPkgManifest, path, "malformed line: "+line)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "depends" {
			dependsRaw = val
			continue
		}
		fields[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	depends := map[string]string{}
	if dependsRaw != "" {
		for _, item := range strings.Split(dependsRaw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			name, rng, ok := strings.Cut(item, "@")
			if !ok {
				return nil, errs.New(errs.InvalidPkgManifest, path, "malformed dependency entry: "+item)
			}
			depends[strings.TrimSpace(name)] = strings.TrimSpace(rng)
		}
	}

	d := doc{
		Name:       fields["name"],
		Namespace:  fields["namespace"],
		Version:    fields["version"],
		Depends:    depends,
		TestDriver: fields["test-driver"],
	}
	return fromDoc(path, true, d)
}
