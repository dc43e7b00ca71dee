package config_test

import (
    "bytes"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/require"

    "tmap-export/src/config"
    "tmap-export/src/style"
)

func writeFile(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "settings.toml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    return path
}

func TestLoad_Partial(t *testing.T) {
    path := writeFile(t, "[manifest]\nmarker_scale = 3.5\n\n[labels]\npalette = [\"#112233\", \"orange\"]\n")
    cfg, err := config.Load(path)
    require.NoError(t, err)
    require.Equal(t, 3.5, cfg.Manifest.MarkerScale)
    require.Equal(t, "lighter", cfg.Manifest.CompositeMode)
    require.Equal(t, 10, cfg.Shapes.MinSegments)

    pal, err := cfg.Palette()
    require.NoError(t, err)
    require.Len(t, pal, 2)
    require.Equal(t, "#112233", style.Hex(pal[0]))
}

func TestLoad_UnknownKey(t *testing.T) {
    path := writeFile(t, "[shapes]\narc_distanse = 2.0\n")
    _, err := config.Load(path)
    require.Error(t, err)
    require.Contains(t, err.Error(), "arc_distanse")
}

func TestLoad_InvalidValues(t *testing.T) {
    path := writeFile(t, "[manifest]\ncomposite_mode = \"glow\"\nmarker_scale = 0\n\n[raster]\ncompression = \"lzw\"\n")
    _, err := config.Load(path)
    require.Error(t, err)
    msg := err.Error()
    for _, want := range []string{"composite_mode", "marker_scale", "compression"} {
        require.True(t, strings.Contains(msg, want), "error %q should mention %s", msg, want)
    }
}

func TestLoad_Malformed(t *testing.T) {
    _, err := config.Load(writeFile(t, "[manifest\n"))
    require.Error(t, err)
}

func TestDefaultPalette(t *testing.T) {
    pal, err := config.Default().Palette()
    require.NoError(t, err)
    require.Equal(t, style.DefaultLabelPalette, pal)
}

func TestWriteThenLoad(t *testing.T) {
    var buf bytes.Buffer
    require.NoError(t, config.Write(&buf, config.Default()))
    cfg, err := config.Load(writeFile(t, buf.String()))
    require.NoError(t, err)
    def := config.Default()
    require.Equal(t, def.Manifest, cfg.Manifest)
    require.Equal(t, def.Shapes, cfg.Shapes)
    require.Equal(t, def.Raster, cfg.Raster)
}
