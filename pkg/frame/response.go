// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import "slices"

// Response is the result of one query: an ordered list of frames.
type Response struct {
	Frames []*Frame `json:"data"`
}

// First returns the first frame, or nil if the response holds none.
func (r Response) First() *Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[0]
}

// WithFirst returns a copy of the response whose first frame is f.
// A response without frames gets f appended.
func (r Response) WithFirst(f *Frame) Response {
	frames := slices.Clone(r.Frames)
	if len(frames) == 0 {
		return Response{Frames: []*Frame{f}}
	}
	frames[0] = f
	return Response{Frames: frames}
}
