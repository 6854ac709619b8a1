// Copyright 2025 The Strucfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/strucfem/strucfem/cmd"
)

func main() {
	cmd.Execute()
}
