// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Univault Authors

package wallet

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ContentID mints the content identifier for an entry: a CIDv1 (raw codec,
// SHA-256 multihash) over the suite-tagged material. The identifier is a
// deterministic fingerprint — stable for the lifetime of the entry and
// collision-resistant across suites.
func ContentID(suiteName string, material []byte) (string, error) {
	tagged := make([]byte, 0, len(suiteName)+1+len(material))
	tagged = append(tagged, suiteName...)
	tagged = append(tagged, ':')
	tagged = append(tagged, material...)

	mh, err := multihash.Sum(tagged, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("failed to hash entry material: %w", err)
	}
	return cid.NewCidV1(cid.Raw, mh).String(), nil
}
