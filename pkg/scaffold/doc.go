/*
Package scaffold creates package projects and adds optional parts to them.

Every scaffolding operation renders its whole file set in memory first, then
writes it. Existing files are never overwritten, and a failed write removes
whatever files and directories the operation created.
*/
package scaffold
