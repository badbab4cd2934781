// Command easyimage loads a settings file, normalizes it and prints the
// resolved transform sets as YAML. It is a diagnostic for checking a
// configuration before handing it to the host.
package main

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"gopkg.in/yaml.v3"

	"easyimage/internal/engine"
	"easyimage/internal/logging"
)

type report struct {
	Format         string                      `yaml:"format"`
	FallbackFormat string                      `yaml:"fallbackFormat"`
	TransformSets  map[string][]map[string]any `yaml:"transformSets"`
}

func main() {
	path := flag.String("config", "easyimage.yml", "settings file")
	sets := flag.String("sets", "", "comma-separated transform sets to normalize (default all)")
	asProto := flag.Bool("proto", false, "print each transform as protobuf JSON instead of YAML")
	logLevel := flag.String("log-level", "", "log level (overrides EASYIMAGE_LOG_LEVEL)")
	logFile := flag.String("log-file", "", "append logs to this file instead of stderr")
	flag.Parse()

	opts := logging.OptionsFromEnv()
	if *logLevel != "" {
		opts.Level = *logLevel
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
		opts.Output = f
	}
	logging.Configure(opts)

	e, err := engine.Bootstrap(engine.Config{SettingsPath: *path})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	var names []string
	if *sets != "" {
		names = strings.Split(*sets, ",")
	}
	if err := e.Prepare(names...); err != nil {
		log.Fatalf("prepare: %v", err)
	}

	s := e.Settings()
	if *asProto {
		printProto(e)
		return
	}
	out := report{
		Format:         string(s.PrimaryFormat()),
		FallbackFormat: string(s.FallbackFormat),
		TransformSets:  make(map[string][]map[string]any),
	}
	for name, ts := range s.TransformSets {
		if !e.Prepared(name) {
			continue
		}
		for _, t := range ts.Transforms {
			out.TransformSets[name] = append(out.TransformSets[name], t.Params())
		}
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode: %v", err)
	}
	_ = enc.Close()
}

// printProto writes one protojson line per transform, prefixed by its set.
func printProto(e *engine.Engine) {
	s := e.Settings()
	for _, name := range slices.Sorted(maps.Keys(s.TransformSets)) {
		if !e.Prepared(name) {
			continue
		}
		for _, t := range s.TransformSets[name].Transforms {
			msg, err := t.Struct()
			if err != nil {
				log.Fatalf("%s: %v", name, err)
			}
			b, err := protojson.Marshal(msg)
			if err != nil {
				log.Fatalf("%s: %v", name, err)
			}
			fmt.Printf("%s\t%s\n", name, b)
		}
	}
}
