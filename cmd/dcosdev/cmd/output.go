package cmd

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/publish"
)

func printInfo(format string, args ...interface{}) {
	infoLogger.Println(color.GreenString(">>> INFO: ") + fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	infoLogger.Println(color.RedString(">>> ERROR: ") + fmt.Sprintf(format, args...))
}

func printFiles(files []string) {
	for _, f := range files {
		infoLogger.Println("  " + color.HiBlackString(f))
	}
}

func printReport(report publish.Report) {
	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("ARTIFACT", "KEY", "SIZE", "STATUS")
	for _, u := range report.Uploaded {
		table.AddRow(u.Path, u.Key, units.HumanSize(float64(u.Size)), color.GreenString("ok"))
	}
	for _, f := range report.Failed {
		table.AddRow(f.Path, f.Key, "-", color.RedString("failed"))
	}
	infoLogger.Println(table)
}

// printFollowUp lists the cluster commands to try a development snapshot
func printFollowUp(name string, e model.Endpoints) {
	table := uitable.New()
	table.AddRow("after 1st up:", fmt.Sprintf("dcos package repo add %s-repo --index=0 %s", name, e.InternalRepositoryURL(name)))
	table.AddRow("install:", fmt.Sprintf("dcos package install %s --yes", name))
	table.AddRow("uninstall:", fmt.Sprintf("dcos package uninstall %s", name))
	table.AddRow("cleanup:", fmt.Sprintf("dcos package repo remove %s-repo", name))
	infoLogger.Println()
	infoLogger.Println(table)
	infoLogger.Println()
}
