// Package geometry derives shutter manufacturing dimensions from raw measurements.
// All inputs and outputs are millimetres; callers convert to metres for catalog quantities.
package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Measurement conventions for posts.
const (
	PostsIncluded = "dikme_dahil"
	PostsExcluded = "dikme_haric"
	SinglePost    = "tek_dikme"
)

// Measurement conventions for the box.
const (
	BoxIncluded = "kutu_dahil"
	BoxExcluded = "kutu_haric"
)

// IsMini reports whether the post type belongs to the mini family.
func IsMini(postType string) bool {
	return strings.HasPrefix(postType, "mini")
}

// IsMidPost reports whether the post type is a middle post, which has no discrete post item.
func IsMidPost(postType string) bool {
	return strings.Contains(postType, "orta")
}

// PostWidth is 53mm for mini posts, 62mm otherwise.
func PostWidth(postType string) float64 {
	if IsMini(postType) {
		return 53
	}
	return 62
}

// DropAllowance is subtracted from the system width to get the lamel width.
func DropAllowance(postType string) float64 {
	if IsMini(postType) {
		return 75
	}
	return 90
}

// NotchAllowance is added to the post height for the notch at the box joint.
func NotchAllowance(postType string) float64 {
	if IsMini(postType) {
		return 20
	}
	return 25
}

// BoxHeight parses the numeric part of a box label such as "165mm".
func BoxHeight(boxType string) float64 {
	return leadingNumber(strings.TrimSuffix(strings.TrimSpace(boxType), "mm"))
}

// ThicknessMM parses the numeric prefix of a thickness label such as "39_sl".
func ThicknessMM(thickness string) float64 {
	prefix, _, _ := strings.Cut(thickness, "_")
	return leadingNumber(prefix)
}

// SystemWidth applies the post measurement convention. Unknown conventions leave width unchanged.
func SystemWidth(width float64, convention, postType string) float64 {
	switch convention {
	case PostsExcluded:
		return width + 2*PostWidth(postType) - 10
	case SinglePost:
		return width + PostWidth(postType) - 10
	case PostsIncluded:
		return width - 10
	}
	return width
}

// SystemHeight adds the box height when the measurement excludes the box.
func SystemHeight(height float64, convention, boxType string) float64 {
	if convention == BoxExcluded {
		return height + BoxHeight(boxType)
	}
	return height
}

// LamelWidth is the slat cut length.
func LamelWidth(systemWidth float64, postType string) float64 {
	return systemWidth - DropAllowance(postType)
}

// LamelCount is the number of slats for the curtain, including one spare slat.
func LamelCount(systemHeight float64, boxType, thickness string) int {
	step := ThicknessMM(thickness)
	if step <= 0 {
		return 0
	}
	return int(math.Ceil((systemHeight-BoxHeight(boxType))/step)) + 1
}

// PostHeight is the cut length of one side post; middle posts yield 0.
func PostHeight(systemHeight float64, boxType, postType string) float64 {
	if IsMidPost(postType) {
		return 0
	}
	return systemHeight - BoxHeight(boxType) + NotchAllowance(postType)
}

// LamelHeight is the curtain height checked against box capacity.
func LamelHeight(height float64, convention, boxType string) float64 {
	if convention == BoxIncluded {
		return height - BoxHeight(boxType)/2
	}
	return height
}

func leadingNumber(s string) float64 {
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
