package ui

import (
	"fmt"
	"strings"
)

// FileStatus represents the status of a file in the repository
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusDeleted
	StatusAdded
	StatusUntracked
	StatusStaged
)

// FormatFileStatus formats a file path with the appropriate status icon and color
func FormatFileStatus(status FileStatus, path string) string {
	switch status {
	case StatusModified:
		return fmt.Sprintf("  %s  %s", ModifiedStyle.Render(IconModified), ModifiedStyle.Render(path))
	case StatusDeleted:
		return fmt.Sprintf("  %s  %s", DeletedStyle.Render(IconDeleted), DeletedStyle.Render(path))
	case StatusAdded:
		return fmt.Sprintf("  %s  %s", AddedStyle.Render(IconAdded), AddedStyle.Render(path))
	case StatusUntracked:
		return fmt.Sprintf("  %s  %s", UntrackedStyle.Render(IconUntracked), UntrackedStyle.Render(path))
	case StatusStaged:
		return fmt.Sprintf("  %s  %s", AddedStyle.Render(IconStaged), AddedStyle.Render(path))
	default:
		return path
	}
}

// SuccessMessage creates a success message with a checkmark icon
func SuccessMessage(message string, details ...string) string {
	parts := []string{Green(IconCheck), Green(message)}
	for _, detail := range details {
		parts = append(parts, Blue(detail))
	}
	return strings.Join(parts, " ")
}

// WarningMessage formats a warning line
func WarningMessage(message string) string {
	return fmt.Sprintf("%s %s", Yellow(IconWarning), Yellow(message))
}

// BranchInfo formats branch information with an icon
func BranchInfo(branchName string) string {
	return fmt.Sprintf("%s Branch: %s", Cyan(IconBranch), Blue(branchName))
}

// CommitInfo holds the display strings of one commit.
type CommitInfo struct {
	Hash    string
	Author  string
	Date    string
	Message string
}

// FormatCommitDetailed formats a commit with full details in a box
func FormatCommitDetailed(commit CommitInfo) string {
	var content strings.Builder

	fmt.Fprintf(&content, "%s %s\n", Yellow(IconCommit), Yellow(commit.Hash))
	fmt.Fprintf(&content, "%s %s\n", Cyan(IconAuthor), Cyan(commit.Author))
	fmt.Fprintf(&content, "%s %s\n\n", Magenta(IconDate), Magenta(commit.Date))
	content.WriteString(commit.Message)

	return CommitBox(content.String())
}

// FormatCommitSeparator creates a separator between commits
func FormatCommitSeparator() string {
	return Dim("  " + IconSeparator)
}
