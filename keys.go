package main

import "strings"

// imagePrefix is where derived images are written, in the source bucket.
const imagePrefix = "image/"

// DerivedKey returns the storage key of a variant of originalKey.
// Variant names never contain '/', so keys never collide across sources.
func DerivedKey(originalKey, variant string) string {
	return imagePrefix + originalKey + "/" + variant + ".jpg"
}

// IsDerivedKey reports whether key lies under the derived image prefix.
func IsDerivedKey(key string) bool {
	return strings.HasPrefix(key, imagePrefix)
}
