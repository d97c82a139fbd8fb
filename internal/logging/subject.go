package logging

import "strings"

// FormatSubject builds the job-identifying subject string used in console
// output, e.g. "Job #<input_path>".
func FormatSubject(jobID string) string {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return ""
	}
	return "Job #" + jobID
}
