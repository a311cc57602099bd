package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
)

// fixtureRecords is the height-sorted view of a three-building table.
func fixtureRecords() []building.Record {
	return []building.Record{
		{Name: "Burj Khalifa", Height: 828, CompletionYear: 2010, City: "Dubai", Country: "United Arab Emirates", Lat: 25.1972, Lon: 55.2744, Row: 1},
		{Name: "Jin Mao Tower", Height: 600, CompletionYear: 1998, City: "Shanghai", Country: "China", Lat: 31.2376, Lon: 121.5012, Row: 3},
		{Name: "Eiffel Tower", Height: 300, CompletionYear: 1889, City: "Paris", Country: "France", Lat: 48.8584, Lon: 2.2945, Row: 2},
	}
}

// writePNG writes a small solid image and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 0x1f, G: 0x3b, B: 0xd4, A: 0xff})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func fileHasPrefix(t *testing.T, path, prefix string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if len(data) < len(prefix) || string(data[:len(prefix)]) != prefix {
		t.Errorf("expected %s to start with %q", filepath.Base(path), prefix)
	}
}
