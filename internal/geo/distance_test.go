package geo

import "testing"

func TestDistanceSamePointIsZero(t *testing.T) {
	if d := Distance(48.85, 2.35, 48.85, 2.35); d != 0 {
		t.Fatalf("expected 0, got %d", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pts := [][2]float64{
		{48.85, 2.35},   // Paris
		{51.5, -0.12},   // London
		{-33.87, 151.2}, // Sydney
		{40.71, -74.0},  // New York
		{0, 0},
		{89.9, 179.9},
	}
	for i, a := range pts {
		for j, b := range pts {
			ab := Distance(a[0], a[1], b[0], b[1])
			ba := Distance(b[0], b[1], a[0], a[1])
			if ab != ba {
				t.Fatalf("pair %d/%d: %d != %d", i, j, ab, ba)
			}
		}
	}
}

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		min, max               int
	}{
		{"paris-london", 48.8566, 2.3522, 51.5074, -0.1278, 340, 350},
		{"quarter meridian", 0, 0, 90, 0, 10007, 10008},
		{"antipodes", 0, 0, 0, 180, 20015, 20016},
	}
	for _, c := range cases {
		d := Distance(c.lat1, c.lon1, c.lat2, c.lon2)
		if d < c.min || d > c.max {
			t.Fatalf("%s: got %d, want [%d,%d]", c.name, d, c.min, c.max)
		}
	}
}
