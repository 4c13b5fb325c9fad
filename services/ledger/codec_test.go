// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCodec_RejectsTruncatedRecords(t *testing.T) {
	_, err := decodeBlock(make([]byte, blockSize-1))
	require.Error(t, err)

	_, err = decodeAccountInfo(make([]byte, accountInfoSize+1))
	require.Error(t, err)

	_, err = decodeConfirmationHeight(nil)
	require.Error(t, err)
}
