package registry

import (
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/mod/semver"
)

// CheckFirmware reports whether a firmware/protocol version string speaks
// this schema. Versions are MAJOR.MINOR[.PATCH] with an optional leading
// "v"; only MAJOR.MINOR has to match APIVersion.
func CheckFirmware(version string) error {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		log.Debug().Str("firmware", version).Msg("registry.CheckFirmware invalid version")
		return &VersionError{Version: version, Want: APIVersion, Reason: "invalid version"}
	}
	if semver.MajorMinor(v) != "v"+APIVersion {
		log.Debug().
			Str("firmware", version).
			Str("api", APIVersion).
			Msg("registry.CheckFirmware incompatible")
		return &VersionError{Version: version, Want: APIVersion, Reason: "incompatible"}
	}
	return nil
}
