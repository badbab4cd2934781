package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"easyimage/internal/settings"
	"easyimage/internal/transform"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "easyimage.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := writeSettings(t, `schema_version: v1
quality: 82
interlace: line
transformSets:
  hero:
    widths: [800, 1600]
    aspectRatio: 2
`)
	t.Setenv("EASYIMAGE__QUALITY", "55")
	t.Setenv("EASYIMAGE__FALLBACKFORMAT", "jpg")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if *s.Quality != 55 {
		t.Fatalf("env should override file quality, got %d", *s.Quality)
	}
	if s.FallbackFormat != transform.FormatJPG || s.PrimaryFormat() != transform.FormatAVIF {
		t.Fatalf("formats: %s/%s", s.PrimaryFormat(), s.FallbackFormat)
	}
	if err := s.Normalize("hero"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	hero := s.TransformSets["hero"]
	if len(hero.Transforms) != 2 || hero.Transforms[0].Width != 1600 || hero.Transforms[0].Height != 800 {
		t.Fatalf("unexpected transforms: %+v", hero.Transforms)
	}
	if *hero.Transforms[1].Interlace != transform.InterlaceLine {
		t.Fatal("interlace not cascaded")
	}
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.PrimaryFormat() != settings.DefaultFormat || s.FallbackFormat != settings.DefaultFallbackFormat {
		t.Fatalf("defaults not applied: %s/%s", s.PrimaryFormat(), s.FallbackFormat)
	}
	if len(s.TransformSets) != 0 {
		t.Fatalf("want no sets, got %d", len(s.TransformSets))
	}
}

func TestLoadSettings_InvalidSchema(t *testing.T) {
	path := writeSettings(t, "schema_version: v999\n")
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}

func TestLoadSettings_UnknownKeys(t *testing.T) {
	path := writeSettings(t, "foo: 1\nwidths: [1]\n")
	_, err := LoadSettings(path)
	var ke *settings.KeyError
	if !errors.As(err, &ke) {
		t.Fatalf("want *settings.KeyError, got %v", err)
	}
	if len(ke.Keys) != 2 || ke.Keys[0] != "foo" || ke.Keys[1] != "widths" {
		t.Fatalf("unexpected keys: %v", ke.Keys)
	}
}

func TestLoadSettings_UnknownEnvKeyRejected(t *testing.T) {
	t.Setenv("EASYIMAGE__SHARPEN", "1")
	_, err := LoadSettings("")
	if !errors.Is(err, settings.ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
format: webp
transformSets:
  thumb: { widths: [100, 200], mode: fit }
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	thumb, err := s.TransformSet("thumb")
	if err != nil {
		t.Fatal(err)
	}
	if *thumb.Mode != transform.ModeFit || s.PrimaryFormat() != transform.FormatWebP {
		t.Fatalf("unexpected settings: %+v", thumb.Properties.Map())
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"EASYIMAGE__QUALITY":                "quality",
		"EASYIMAGE__ASPECTRATIO":            "aspectRatio",
		"EASYIMAGE__fallbackformat":         "fallbackFormat",
		"EASYIMAGE__TRANSFORMSETS__HERO__X": "",
		"EASYIMAGE__":                       "",
		"EASYIMAGE__SHARPEN":                "sharpen",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse_RejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"fractional quality": "quality: 82.7\n",
		"bool ratio":         "aspectRatio: true\n",
		"fractional width":   "transformSets:\n  hero: { widths: [100.9] }\n",
		"wrong schema":       "schema_version: v2\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestLoadSettings_EnvValueMustParse(t *testing.T) {
	t.Setenv("EASYIMAGE__QUALITY", "high")
	_, err := LoadSettings("")
	if !errors.Is(err, settings.ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}
