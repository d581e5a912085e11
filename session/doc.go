// SPDX-License-Identifier: EPL-2.0

// Package session orchestrates one capture, process and submit sequence.
//
// States move forward as
//
//	Idle -> Capturing -> Captured -> Processing -> Ready -> Submitting -> Done
//
// and any failing step ends in Failed with Err set. Reset returns to Idle
// from anywhere and drops the result of whatever was still running.
//
// Only one operation runs at a time. Starting a capture, loading audio or
// processing while another operation is in flight returns a
// *TransitionError that matches ErrBusy, and the running operation is not
// affected:
//
//	s := session.New(audenhance.NewConverter(), client)
//	if err := s.LoadFile("speech.mp3"); err != nil {
//	    return err
//	}
//	if err := s.Process(ctx); err != nil {
//	    return err
//	}
//	res, err := s.Submit(ctx)
package session
