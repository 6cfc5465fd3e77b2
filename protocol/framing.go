//
//  UI client for privateLINE Connect Desktop
//  https://github.com/swapnilsparsh/devsVPN
//
//  Copyright (c) 2025 privateLINE, LLC.
//
//  This file is part of the privateLINE Connect Desktop.
//
//  The privateLINE Connect Desktop is free software: you can redistribute it and/or
//  modify it under the terms of the GNU General Public License as published by the Free
//  Software Foundation, either version 3 of the License, or (at your option) any later version.
//
//  The privateLINE Connect Desktop is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
//  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for more
//  details.
//
//  You should have received a copy of the GNU General Public License
//  along with the privateLINE Connect Desktop. If not, see <https://www.gnu.org/licenses/>.
//

package protocol

import "bytes"

// frameSeparator terminates every message on the wire
const frameSeparator = '\n'

// frameSplitter turns an arbitrarily chunked byte stream into complete frames.
// Not safe for concurrent use: each connection reader owns one.
type frameSplitter struct {
	partial []byte
}

// Feed consumes the next chunk and returns the frames it completes.
// Returned slices do not alias 'chunk'. Empty frames are skipped.
func (s *frameSplitter) Feed(chunk []byte) [][]byte {
	var frames [][]byte
	for {
		i := bytes.IndexByte(chunk, frameSeparator)
		if i < 0 {
			break
		}

		var frame []byte
		if len(s.partial) > 0 {
			frame = append(s.partial, chunk[:i]...)
			s.partial = nil
		} else if i > 0 {
			frame = append([]byte(nil), chunk[:i]...)
		}
		if len(frame) > 0 {
			frames = append(frames, frame)
		}

		chunk = chunk[i+1:]
	}

	if len(chunk) > 0 {
		s.partial = append(s.partial, chunk...)
	}
	return frames
}

// Pending returns the number of buffered bytes of an unterminated frame
func (s *frameSplitter) Pending() int {
	return len(s.partial)
}

// encodeFrame appends the separator to a serialized message
func encodeFrame(payload []byte) []byte {
	return append(payload, frameSeparator)
}
