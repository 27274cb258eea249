package gitrev

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Fields builds the template substitution map for a run.
//
// {tag} is always present. When the tag parses as semver, the component
// fields are populated; non-semver tags keep them empty rather than
// failing the run. Git fields come from info and may be absent.
func Fields(tag string, info *Info) map[string]string {
	fields := map[string]string{
		"tag": tag,
	}

	if v, err := semver.NewVersion(strings.TrimPrefix(tag, "v")); err == nil {
		fields["version"] = v.String()
		fields["major"] = strconv.FormatUint(v.Major(), 10)
		fields["minor"] = strconv.FormatUint(v.Minor(), 10)
		fields["patch"] = strconv.FormatUint(v.Patch(), 10)
		fields["prerelease"] = v.Prerelease()
	}

	if info != nil {
		fields["sha"] = info.SHA
		fields["branch"] = info.Branch
		if info.Dirty {
			fields["dirty"] = "dirty"
		} else {
			fields["dirty"] = ""
		}
	}

	return fields
}

// Resolve replaces {key} placeholders in s with their field values.
// Unknown placeholders are left intact so mistakes stay visible.
func Resolve(s string, fields map[string]string) string {
	for k, v := range fields {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}
