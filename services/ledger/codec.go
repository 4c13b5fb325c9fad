// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package ledger

import (
	"encoding/binary"
	"github.com/orbs-network/orbs-election-scheduler/primitives"
	"github.com/pkg/errors"
)

const (
	amountSize             = 32
	blockSize              = 3*primitives.HashSize + amountSize + 8
	accountInfoSize        = 2*primitives.HashSize + amountSize + 8 + 8
	confirmationHeightSize = 8 + primitives.HashSize
)

// fixed width big-endian records; field order is the layout

func encodeBlock(b *primitives.Block) []byte {
	buf := make([]byte, 0, blockSize)
	balance := b.Balance.Bytes32()
	buf = append(buf, b.Hash[:]...)
	buf = append(buf, b.Account[:]...)
	buf = append(buf, b.Previous[:]...)
	buf = append(buf, balance[:]...)
	buf = binary.BigEndian.AppendUint64(buf, b.Height)
	return buf
}

func decodeBlock(buf []byte) (*primitives.Block, error) {
	if len(buf) != blockSize {
		return nil, errors.Errorf("block record has %d bytes, expected %d", len(buf), blockSize)
	}
	b := &primitives.Block{}
	r := reader{buf: buf}
	r.hash((*[primitives.HashSize]byte)(&b.Hash))
	r.hash((*[primitives.HashSize]byte)(&b.Account))
	r.hash((*[primitives.HashSize]byte)(&b.Previous))
	b.Balance = r.amount()
	b.Height = r.uint64()
	return b, nil
}

func encodeAccountInfo(info primitives.AccountInfo) []byte {
	buf := make([]byte, 0, accountInfoSize)
	balance := info.Balance.Bytes32()
	buf = append(buf, info.Head[:]...)
	buf = append(buf, info.OpenBlock[:]...)
	buf = append(buf, balance[:]...)
	buf = binary.BigEndian.AppendUint64(buf, info.BlockCount)
	buf = binary.BigEndian.AppendUint64(buf, info.Modified)
	return buf
}

func decodeAccountInfo(buf []byte) (primitives.AccountInfo, error) {
	var info primitives.AccountInfo
	if len(buf) != accountInfoSize {
		return info, errors.Errorf("account record has %d bytes, expected %d", len(buf), accountInfoSize)
	}
	r := reader{buf: buf}
	r.hash((*[primitives.HashSize]byte)(&info.Head))
	r.hash((*[primitives.HashSize]byte)(&info.OpenBlock))
	info.Balance = r.amount()
	info.BlockCount = r.uint64()
	info.Modified = r.uint64()
	return info, nil
}

func encodeConfirmationHeight(info primitives.ConfirmationHeightInfo) []byte {
	buf := make([]byte, 0, confirmationHeightSize)
	buf = binary.BigEndian.AppendUint64(buf, info.Height)
	buf = append(buf, info.Frontier[:]...)
	return buf
}

func decodeConfirmationHeight(buf []byte) (primitives.ConfirmationHeightInfo, error) {
	var info primitives.ConfirmationHeightInfo
	if len(buf) != confirmationHeightSize {
		return info, errors.Errorf("confirmation height record has %d bytes, expected %d", len(buf), confirmationHeightSize)
	}
	r := reader{buf: buf}
	info.Height = r.uint64()
	r.hash((*[primitives.HashSize]byte)(&info.Frontier))
	return info, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) hash(dst *[primitives.HashSize]byte) {
	copy(dst[:], r.buf[r.pos:r.pos+primitives.HashSize])
	r.pos += primitives.HashSize
}

func (r *reader) amount() primitives.Amount {
	a := primitives.AmountFromBytes(r.buf[r.pos : r.pos+amountSize])
	r.pos += amountSize
	return a
}

func (r *reader) uint64() uint64 {
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}
