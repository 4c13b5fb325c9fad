// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

//go:build !debug

package activeelections

import (
	"fmt"
	"github.com/orbs-network/scribe/log"
)

var assertLogger = log.GetLogger(log.Service("active-elections"))

// assertf reports a broken internal invariant. Builds tagged debug panic instead.
func assertf(format string, args ...interface{}) {
	assertLogger.Error("invariant violated", log.String("details", fmt.Sprintf(format, args...)))
}
