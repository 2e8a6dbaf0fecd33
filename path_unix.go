// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !windows

package pkgconfig

import (
	"os"
	"syscall"
)

// sameFileID extracts the (device, inode) pair the teacher's fsCacheT
// keys directories by (pathutil.go fileid), used here to catch two
// differently-spelled paths that resolve to one directory.
func sameFileID(info os.FileInfo) (fileid, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return invalidFileid, false
	}
	return fileid{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
