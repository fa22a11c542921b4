package avatar

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// fallback palette size; seeds map deterministically onto one of these.
const fallbackCount = 16

// Resolver turns stored avatar paths into displayable URLs. Resolution is a
// pure lookup: absolute URLs pass through, relative paths join the media base
// and an empty path maps to a deterministic placeholder from the seed.
type Resolver struct {
	MediaBaseURL string
}

func New(mediaBaseURL string) *Resolver {
	return &Resolver{MediaBaseURL: strings.TrimRight(mediaBaseURL, "/")}
}

func (r *Resolver) Resolve(pathOrURL, fallbackSeed string) string {
	switch {
	case pathOrURL == "":
		h := fnv.New32a()
		h.Write([]byte(fallbackSeed))
		return fmt.Sprintf("%s/avatars/default/%d.png", r.MediaBaseURL, h.Sum32()%fallbackCount)
	case strings.HasPrefix(pathOrURL, "http://"), strings.HasPrefix(pathOrURL, "https://"):
		return pathOrURL
	default:
		return r.MediaBaseURL + "/" + strings.TrimLeft(pathOrURL, "/")
	}
}
