package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.Contains(info.String(), info.Version) {
		t.Errorf("String() = %q", info.String())
	}
}

func TestGet_LinkerValues(t *testing.T) {
	defer func(v, r string) { Version, Revision = v, r }(Version, Revision)
	Version, Revision = "1.2.3", "abc1234"

	info := Get()
	if info.Version != "1.2.3" || info.Revision != "abc1234" {
		t.Errorf("Get() = %+v", info)
	}
}
