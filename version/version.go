/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package version

import (
	"fmt"
)

// ApplicationVersion represents application version.
var ApplicationVersion = NewVersion(0, 1, 0)

// SemanticVersion represents version information with Semantic Versioning specifications.
type SemanticVersion struct {
	major uint
	minor uint
	patch uint
}

// NewVersion initializes a new instance of SemanticVersion.
func NewVersion(major, minor, patch uint) *SemanticVersion {
	return &SemanticVersion{
		major: major,
		minor: minor,
		patch: patch,
	}
}

// String returns a string that represents this instance.
func (v *SemanticVersion) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.major, v.minor, v.patch)
}

// IsEqual returns true if this instance is equal to the version passed as parameter.
func (v *SemanticVersion) IsEqual(v2 *SemanticVersion) bool {
	if v == v2 {
		return true
	}
	return v.major == v2.major && v.minor == v2.minor && v.patch == v2.patch
}

// IsLess returns true if this instance is lower than the version passed as parameter.
func (v *SemanticVersion) IsLess(v2 *SemanticVersion) bool {
	return v.compare(v2) < 0
}

// IsGreater returns true if this instance is greater than the version passed as parameter.
func (v *SemanticVersion) IsGreater(v2 *SemanticVersion) bool {
	return v.compare(v2) > 0
}

func (v *SemanticVersion) compare(v2 *SemanticVersion) int {
	switch {
	case v.major != v2.major:
		return cmp(v.major, v2.major)
	case v.minor != v2.minor:
		return cmp(v.minor, v2.minor)
	default:
		return cmp(v.patch, v2.patch)
	}
}

func cmp(a, b uint) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}
