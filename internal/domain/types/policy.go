package types

// Policy is a host-supplied configuration record governing how a
// SessionCore negotiates and maintains OTR protection for one SessionID.
//
// AllowV1 is recognized for backwards compatibility with ancient query
// messages but never opens a session: OTR version 1 is always refused.
type Policy struct {
	AllowV1            bool `toml:"allow_v1"`
	AllowV2            bool `toml:"allow_v2"`
	AllowV3            bool `toml:"allow_v3"`
	RequireEncryption  bool `toml:"require_encryption"`
	SendWhitespaceTag  bool `toml:"send_whitespace_tag"`
	WhitespaceStartAKE bool `toml:"whitespace_start_ake"`
	ErrorStartAKE      bool `toml:"error_start_ake"`
}

// AllowsAnyVersion reports whether the policy enables OTR at all. AllowV1
// alone does not count: v1 is recognized but never negotiated.
func (p Policy) AllowsAnyVersion() bool {
	return p.AllowV2 || p.AllowV3
}

// AllowedVersions returns the versions this policy is willing to speak, in
// descending priority order (3 before 2). v1 is never included.
func (p Policy) AllowedVersions() []int {
	var out []int
	if p.AllowV3 {
		out = append(out, 3)
	}
	if p.AllowV2 {
		out = append(out, 2)
	}
	return out
}

// Allows reports whether the policy enables the given protocol version.
func (p Policy) Allows(version int) bool {
	switch version {
	case 2:
		return p.AllowV2
	case 3:
		return p.AllowV3
	default:
		return false
	}
}

// BestVersion returns the highest-priority version both this policy and a
// peer-advertised version set allow, or 0 if none match.
func (p Policy) BestVersion(peerVersions []int) int {
	peerSet := make(map[int]bool, len(peerVersions))
	for _, v := range peerVersions {
		peerSet[v] = true
	}
	for _, v := range p.AllowedVersions() {
		if peerSet[v] {
			return v
		}
	}
	return 0
}
