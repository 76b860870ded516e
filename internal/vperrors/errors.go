// Package vperrors defines the fatal error kinds produced while loading a
// registry, loading profiles, resolving them, or emitting source. None of
// these are recoverable: the driver logs and exits on the first one raised.
package vperrors

import "fmt"

// ParseError reports a malformed registry or profile document.
type ParseError struct {
	Source string // file path or logical source being parsed
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error in %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RegistryConsistency reports an internal inconsistency discovered while
// building the registry model (a dangling alias, an extension with no
// matching *_EXTENSION_NAME enum, an unsupported feature number, ...).
type RegistryConsistency struct {
	Subject string // e.g. "extension VK_KHR_foo"
	Reason  string
}

func (e *RegistryConsistency) Error() string {
	return fmt.Sprintf("registry consistency: %s: %s", e.Subject, e.Reason)
}

// ProfileConflict reports two capability fragments disagreeing about the
// same capability value (a type mismatch during deep-merge).
type ProfileConflict struct {
	Profile string
	Path    string // dotted path to the conflicting value
	Reason  string
}

func (e *ProfileConflict) Error() string {
	return fmt.Sprintf("profile %q: conflict at %s: %s", e.Profile, e.Path, e.Reason)
}

// ProfileDependency reports a profile referencing a struct, extension, or
// API version that the registry cannot supply, or that isn't reachable
// through the profile's own declared requirements.
type ProfileDependency struct {
	Profile string
	Subject string
	Reason  string
}

func (e *ProfileDependency) Error() string {
	return fmt.Sprintf("profile %q: dependency %s: %s", e.Profile, e.Subject, e.Reason)
}

// EmitterError reports a failure while synthesizing generated source, such
// as a capability referencing a non-chainable structure.
type EmitterError struct {
	Profile string
	Subject string
	Reason  string
}

func (e *EmitterError) Error() string {
	subj := e.Subject
	if e.Profile != "" {
		subj = fmt.Sprintf("%s (profile %q)", subj, e.Profile)
	}
	return fmt.Sprintf("emitter error: %s: %s", subj, e.Reason)
}
