package version

import "fmt"

// Repository is the public home of snekfetch, advertised in the default
// User-Agent.
const Repository = "https://github.com/RedstoneDaedalus/snekfetch"

// Version represents a version of snekfetch
type Version struct {
	major int
	minor int
	patch int
}

func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// Current returns current version of snekfetch
func Current() *Version {
	return &Version{major: 3, minor: 6, patch: 4}
}

// UserAgent is the User-Agent sent when the caller did not set one.
func UserAgent() string {
	return fmt.Sprintf("snekfetch/%s (%s)", Current(), Repository)
}
