package types

import (
	"errors"

	"github.com/hashicorp/go-version"
)

// CurrentProtocolVersion is stamped onto every envelope this module
// constructs. Mirrors the teacher's RPCHeader.ProtocolVersion /
// LatestProtocolVersion pair in pkg/mcast/protocol.go, generalized from
// a plain integer to a semver string so a future breaking change to the
// wire format has somewhere to declare itself.
const CurrentProtocolVersion = "1.0.0"

// ErrUnsupportedProtocol is returned when an envelope arrives tagged
// with a version this build cannot interoperate with.
var ErrUnsupportedProtocol = errors.New("ringelect: protocol version not supported")

// CheckVersion reports whether an incoming envelope's version is
// compatible with the locally configured one. Two versions are
// compatible when they share the same major component, the usual
// semver contract.
func CheckVersion(local, incoming string) error {
	if incoming == "" {
		return ErrUnsupportedProtocol
	}
	lv, err := version.NewVersion(local)
	if err != nil {
		return err
	}
	iv, err := version.NewVersion(incoming)
	if err != nil {
		return ErrUnsupportedProtocol
	}
	if lv.Segments()[0] != iv.Segments()[0] {
		return ErrUnsupportedProtocol
	}
	return nil
}
