package decode

import "testing"

func TestVideoMetaFromContainer(t *testing.T) {
	m := containerMeta{
		"CreationDate":   "2022:06:01 14:30:00",
		"CreateDate":     "2022:06:01 12:30:00",
		"ImageWidth":     float64(1920),
		"ImageHeight":    float64(1080),
		"Duration":       10.5,
		"CompressorID":   "hvc1",
		"VideoFrameRate": 59.94,
	}

	meta := videoMetaFromContainer(m)

	if meta.DateTaken == nil || *meta.DateTaken != "2022:06:01" {
		t.Errorf("DateTaken = %v, want 2022:06:01", meta.DateTaken)
	}
	if meta.TimeTaken == nil || *meta.TimeTaken != "14:30:00" {
		t.Errorf("tagged creation date must win over encoded date, got %v", meta.TimeTaken)
	}
	if meta.Width == nil || *meta.Width != 1920 {
		t.Errorf("Width = %v, want 1920", meta.Width)
	}
	if meta.Height == nil || *meta.Height != 1080 {
		t.Errorf("Height = %v, want 1080", meta.Height)
	}
	if meta.DurationMS == nil || *meta.DurationMS != 10500 {
		t.Errorf("DurationMS = %v, want 10500", meta.DurationMS)
	}
	if meta.Codec == nil || *meta.Codec != "hvc1" {
		t.Errorf("Codec = %v, want hvc1", meta.Codec)
	}
	if meta.FrameRate == nil || *meta.FrameRate != 59.94 {
		t.Errorf("FrameRate = %v, want 59.94", meta.FrameRate)
	}
}

func TestVideoMetaEncodedDateFallback(t *testing.T) {
	m := containerMeta{
		"CreateDate": "2022-06-01 12:30:00 UTC",
	}
	meta := videoMetaFromContainer(m)
	if meta.DateTaken == nil || *meta.DateTaken != "2022:06:01" {
		t.Errorf("DateTaken = %v, want 2022:06:01", meta.DateTaken)
	}
	if meta.TimeTaken == nil || *meta.TimeTaken != "12:30:00" {
		t.Errorf("TimeTaken = %v, want 12:30:00", meta.TimeTaken)
	}
}

func TestVideoMetaEmptyContainer(t *testing.T) {
	meta := videoMetaFromContainer(containerMeta{})
	if meta.DateTaken != nil || meta.Width != nil || meta.DurationMS != nil ||
		meta.Codec != nil || meta.FrameRate != nil {
		t.Errorf("empty container must produce all-nil fields: %+v", meta)
	}
}

func TestParseDurationLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"seconds with unit", "10.53 s", 10.53, true},
		{"plain seconds", "42", 42, true},
		{"clock form", "0:01:30", 90, true},
		{"clock with fraction", "0:00:10.5", 10.5, true},
		{"zero", "0", 0, false},
		{"garbage", "n/a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDurationLabel(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseDurationLabel(%q) = (%v, %v), want (%v, %v)",
					tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
