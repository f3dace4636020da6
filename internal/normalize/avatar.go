package normalize

import "strings"

// defaultAvatars is the fixed fallback palette. A user with no usable avatar
// is assigned one deterministically by hashing their identifier.
var defaultAvatars = []string{
	"https://images.unsplash.com/photo-1494790108755-2616b612f0c6?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1517841905240-472988babdf9?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=80&h=80&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=80&h=80&fit=crop&crop=face",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp"}

// HasImageExtension reports whether the path ends with a known image
// file extension.
func HasImageExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsImageURL reports whether the value can be used directly as an avatar or
// image source: an http(s) URL, a data:image/ URL, or a path with a known
// image extension.
func IsImageURL(u string) bool {
	if u == "" {
		return false
	}
	if strings.HasPrefix(u, "data:image/") {
		return true
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return true
	}
	return HasImageExtension(u)
}

// HashCode computes the classic 31-based string hash, truncated to 32 bits.
// Kept stable so avatar assignment never shifts between loads.
func HashCode(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// AvatarURL returns the given avatar when it is a usable image source, or a
// deterministic pick from the default palette keyed by the user identifier.
func AvatarURL(avatar, identifier string) string {
	if IsImageURL(avatar) {
		return avatar
	}
	if identifier == "" {
		identifier = "anonymous"
	}
	idx := int(HashCode(identifier) & 0x7fffffff)
	return defaultAvatars[idx%len(defaultAvatars)]
}
