package models

// Info describes a Whisper model size and its rough resource profile.
type Info struct {
	Size   string
	Params string
	VRAM   string
	Speed  string
}

var catalog = []Info{
	{Size: "tiny", Params: "39M", VRAM: "~1GB", Speed: "~32x"},
	{Size: "base", Params: "74M", VRAM: "~1GB", Speed: "~16x"},
	{Size: "small", Params: "244M", VRAM: "~2GB", Speed: "~6x"},
	{Size: "medium", Params: "769M", VRAM: "~5GB", Speed: "~2x"},
	{Size: "large", Params: "1550M", VRAM: "~10GB", Speed: "~1x"},
	{Size: "large-v2", Params: "1550M", VRAM: "~10GB", Speed: "~1x"},
	{Size: "large-v3", Params: "1550M", VRAM: "~10GB", Speed: "~1x"},
}

// Catalog returns the known model sizes in ascending size order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for a model size.
func Lookup(size string) (Info, bool) {
	for _, info := range catalog {
		if info.Size == size {
			return info, true
		}
	}
	return Info{}, false
}

// Sizes lists the valid model size names.
func Sizes() []string {
	out := make([]string, len(catalog))
	for i, info := range catalog {
		out[i] = info.Size
	}
	return out
}

// MapRemoteModel substitutes model names whose remote variants require
// authentication with freely downloadable equivalents.
func MapRemoteModel(size string) string {
	switch size {
	case "large", "large-v3":
		return "large-v2"
	default:
		return size
	}
}
