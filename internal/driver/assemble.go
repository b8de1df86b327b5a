package driver

import (
	"fmt"
	"strings"
)

// Assembly target. The emitted IR is target-neutral apart from pointer
// width, so a single 64-bit triple covers every value type we produce.
const (
	targetTriple     = "x86_64-unknown-linux-gnu"
	targetDataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"
)

// assembleModule joins the fixed module header with the per-function texts
// in declaration order. The result is the complete output unit; nothing is
// appended to it afterwards.
func assembleModule(sourcePath string, funcs []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n", sourcePath)
	fmt.Fprintf(&sb, "source_filename = %q\n", sourcePath)
	fmt.Fprintf(&sb, "target datalayout = %q\n", targetDataLayout)
	fmt.Fprintf(&sb, "target triple = %q\n", targetTriple)
	for _, fn := range funcs {
		sb.WriteString("\n")
		sb.WriteString(fn)
	}
	return sb.String()
}
