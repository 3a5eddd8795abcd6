// This file is part of Traceboy.
//
// Traceboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Traceboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Traceboy.  If not, see <https://www.gnu.org/licenses/>.

package collector

import (
	"fmt"

	"github.com/jetsetilly/traceboy/cartridgeloader"
	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/machine"
	"github.com/jetsetilly/traceboy/trace"
)

// Verification is the outcome of verifying a record.
type Verification string

// List of valid Verification values.
const (
	Unchecked    Verification = "unchecked"
	Verified     Verification = "verified"
	Mismatch     Verification = "mismatch"
	WrongProgram Verification = "program"
	Invalid      Verification = "invalid"
)

// Verifier replays records on a reference machine.
type Verifier struct {
	vm *machine.Machine
}

// NewVerifier creates a verifier for the program. Only records with the
// program's fingerprint can be verified.
func NewVerifier(cl cartridgeloader.Loader) (*Verifier, error) {
	vm, err := machine.NewMachine(cl)
	if err != nil {
		return nil, curated.Errorf("collector: verifier: %v", err)
	}
	return &Verifier{vm: vm}, nil
}

// Fingerprint returns the fingerprint of the program the verifier runs.
func (v *Verifier) Fingerprint() uint32 {
	return v.vm.ContentFingerprint()
}

// Verify replays the window. The string is a description of any problem. Not
// safe for concurrent use.
func (v *Verifier) Verify(w *trace.Window) (Verification, string) {
	if w.ContentFingerprint != v.vm.ContentFingerprint() {
		return WrongProgram, fmt.Sprintf("record is for program %08x", w.ContentFingerprint)
	}

	if err := v.vm.RestoreState(w.StartState); err != nil {
		return Invalid, err.Error()
	}

	for _, s := range w.Replayable() {
		v.vm.RunFrame(uint8(s))
	}

	end, err := v.vm.SnapshotState()
	if err != nil {
		return Invalid, err.Error()
	}

	if fp := trace.Checksum(end); fp != w.EndStateFingerprint {
		return Mismatch, fmt.Sprintf("replay ended with %08x", fp)
	}

	return Verified, ""
}
