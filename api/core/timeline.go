package core

import (
	"cmp"
	"slices"
)

// BuildTimeline splits volumes into the JA track and, when any volume is
// English, the EN track. Undated volumes add no point but still move Latest.
func BuildTimeline(volumes []Volume) (Timeline, error) {
	if len(volumes) == 0 {
		return Timeline{}, ErrEmptyTimeline
	}

	ordered := slices.Clone(volumes)
	slices.SortStableFunc(ordered, func(a, b Volume) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	ja := Track{Locale: LocaleJA}
	en := Track{Locale: LocaleEN}
	hasEN := false

	for _, v := range ordered {
		label := firstNonEmpty(v.TitleJA, v.TitleEN)
		if v.ReleaseJA != nil {
			ja.Points = append(ja.Points, TimelinePoint{SortOrder: v.SortOrder, Label: label, Date: *v.ReleaseJA})
		}
		ja.Latest = label

		if v.Locale != LocaleEN {
			continue
		}
		hasEN = true
		label = firstNonEmpty(v.TitleEN, v.TitleJA)
		if v.ReleaseEN != nil {
			en.Points = append(en.Points, TimelinePoint{SortOrder: v.SortOrder, Label: label, Date: *v.ReleaseEN})
		}
		en.Latest = label
	}

	tl := Timeline{JA: ja}
	if hasEN {
		tl.EN = &en
	}
	return tl, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
