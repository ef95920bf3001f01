package decode

import (
	"os"
	"strconv"
	"strings"

	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/mediatypes"
	"gallery-inspector/internal/metrics"
)

// decodeVideo handles every video container through exiftool. When the
// tool is unavailable or the file carries no usable metadata, the record
// survives with nil fields.
func decodeVideo(path string, info os.FileInfo) (*Record, error) {
	rec := baseRecord(path, info, mediatypes.CategoryVideo)

	m, err := readContainer(path)
	if err != nil {
		logging.Debug("no container metadata for %s: %v", path, err)
		rec.Video = &VideoMeta{}
		return rec, nil
	}
	metrics.DecodeStrategyHits.WithLabelValues("container").Inc()

	rec.Video = videoMetaFromContainer(m)
	return rec, nil
}

// videoMetaFromContainer maps exiftool's container fields onto the video
// field set. The tagged creation date (set by the camera in local time)
// is preferred over the encoded date, which muxers commonly write in UTC.
func videoMetaFromContainer(m containerMeta) *VideoMeta {
	meta := &VideoMeta{}

	if s, ok := m.str("CreationDate", "DateTimeOriginal"); ok {
		applyTimestamp(s, &meta.DateTaken, &meta.TimeTaken)
	}
	if meta.DateTaken == nil {
		if s, ok := m.str("CreateDate", "TrackCreateDate", "MediaCreateDate"); ok {
			applyTimestamp(s, &meta.DateTaken, &meta.TimeTaken)
		}
	}

	if v, ok := m.int("ImageWidth", "SourceImageWidth"); ok && v > 0 {
		meta.Width = intPtr(v)
	}
	if v, ok := m.int("ImageHeight", "SourceImageHeight"); ok && v > 0 {
		meta.Height = intPtr(v)
	}

	if secs, ok := containerDurationSeconds(m); ok {
		meta.DurationMS = floatPtr(secs * 1000)
	}

	if s, ok := m.str("CompressorID", "VideoCodec", "CompressorName"); ok {
		meta.Codec = strPtr(strings.TrimSpace(s))
	}

	if v, ok := m.float("VideoFrameRate", "FrameRate"); ok && v > 0 {
		meta.FrameRate = floatPtr(v)
	}

	return meta
}

// containerDurationSeconds reads the duration field, which exiftool
// reports either as a number of seconds or as a formatted string such as
// "10.53 s" or "0:01:30".
func containerDurationSeconds(m containerMeta) (float64, bool) {
	if v, ok := m.float("Duration", "MediaDuration", "TrackDuration"); ok && v > 0 {
		return v, true
	}
	s, ok := m.str("Duration", "MediaDuration", "TrackDuration")
	if !ok {
		return 0, false
	}
	return parseDurationLabel(s)
}

func parseDurationLabel(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "s"))
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		var total float64
		for _, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return 0, false
			}
			total = total*60 + v
		}
		return total, total > 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
