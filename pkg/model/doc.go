// Package model describes the project a dcosdev command works on.
//
// The model is composed of:
//
//	Layout:
//	  The fixed set of files making up a service package project, relative to an explicit root
//	  directory (universe descriptors, svc.yml, java sub-projects, integration tests).
//
//	Project:
//	  A Layout plus the package name and SDK version recorded in universe/package.json.
//	  It is loaded once per command and handed to every component.
//
//	Endpoints:
//	  Where development snapshots and releases are published, and the URLs derived from them.
//
//	SDK versions:
//	  The allow-list of DC/OS SDK versions that projects may be scaffolded with or upgraded to.
package model
