package cli

import (
	"fmt"
	"io"
	"strings"
)

// Version is the datasetutil release, overridden at link time.
var Version = "0.0.0"

const rule = "*******************************************************************************"

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprint(out, usageText)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
	fmt.Fprint(out, usageExamples)
}

func printBanner(out io.Writer) {
	fmt.Fprint(out, strings.Repeat("\n", 5))
	fmt.Fprintln(out, "\n\t\t**************************************************")
	fmt.Fprintf(out, "\t\tAnalytics Cloud Dataset Utils - %s\n", Version)
	fmt.Fprintln(out, "\t\t**************************************************")
	fmt.Fprintln(out)
}

func printEndBanner(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "\t\t**************************************************")
	fmt.Fprintln(out, "\t\tDataset Utils stopped")
	fmt.Fprintln(out, "\t\t**************************************************")
}

const usageText = `Usage:
datasetutil --action load --u userName --p password --dataset datasetAlias --inputFile inputFile --endpoint endPoint
--action            : load, downloadXMD, uploadXMD, detectEncoding, downloadErrorFile
--u                 : Salesforce.com login
--p                 : (Optional) Salesforce.com password, if omitted you will be prompted
--token             : (Optional) Salesforce.com token
--sessionId         : (Optional) the salesforce sessionId. if specified, specify endpoint
--endpoint          : (Optional) The salesforce soap api endpoint (test/prod)
                    : Default: https://login.salesforce.com/services/Soap/u/31.0
--dataset           : (Optional) the dataset alias. required if action=load
--datasetLabel      : (Optional) the dataset label, defaults to the alias
--app               : (Optional) the app (dataset folder) name for the dataset
--inputFile         : (Optional) the input csv file. required if action=load
--schemaFile        : (Optional) the schema file for the input csv
--operation         : (Optional) Overwrite, Upsert, Append or Delete, default is Overwrite
--fileEncoding      : (Optional) the encoding of the inputFile, default is auto-detect
--uploadFormat      : (Optional) whether to upload as binary or csv, default is binary
--mode              : (Optional) Incremental or None, default is None
--notificationLevel : (Optional) Always, Failures, Warnings or Never
--notificationEmail : (Optional) the email address for notifications
--codingErrorAction : (Optional) IGNORE, REPORT or REPLACE, default is REPORT
--debug             : (Optional) enable debug logging
`

const usageExamples = `Usage Example 1: Upload a csv to a dataset
datasetutil --action load --u user@example.com --p @#@#@# --inputFile Opportunity.csv --dataset test

Usage Example 2: Append a csv to a dataset
datasetutil --action load --operation append --u user@example.com --p @#@#@# --inputFile Opportunity.csv --dataset test

Usage Example 3: Download dataset xmd files
datasetutil --action downloadXMD --u user@example.com --p @#@#@# --dataset test

Usage Example 4: Upload user.xmd.json
datasetutil --action uploadXMD --u user@example.com --p @#@#@# --inputFile user.xmd.json --dataset test

Usage Example 5: Detect the encoding of a file
datasetutil --action detectEncoding --inputFile Opportunity.csv

`
