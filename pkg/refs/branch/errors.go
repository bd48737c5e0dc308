package branch

import (
	"fmt"
	"strings"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/repository/refs"
)

const pkgName = "branch"

// NewNotFoundError reports a branch that does not exist.
func NewNotFoundError(name string) error {
	return errs.New(pkgName, errs.CodeInvalidInput, "lookup",
		fmt.Sprintf("branch '%s' not found", name), nil).
		WithContext("branch", name)
}

// NewAlreadyExistsError reports a branch name that is taken.
func NewAlreadyExistsError(name string) error {
	return errs.New(pkgName, errs.CodeAlreadyExists, "create",
		fmt.Sprintf("branch '%s' already exists", name), nil).
		WithContext("branch", name)
}

// NewIsCurrentError reports an attempt to delete the branch HEAD points at.
func NewIsCurrentError(name string) error {
	return errs.New(pkgName, errs.CodeInvalidInput, "delete",
		fmt.Sprintf("cannot delete branch '%s': it is the current branch", name), nil).
		WithContext("branch", name)
}

// NewNotMergedError reports a branch whose tip is not in HEAD's history.
func NewNotMergedError(name string) error {
	return errs.New(pkgName, errs.CodeInvalidInput, "delete",
		fmt.Sprintf("branch '%s' is not fully merged; use force to delete it anyway", name), nil).
		WithContext("branch", name)
}

// ValidateBranchName checks name against the ref naming rules.
func ValidateBranchName(name string) error {
	if name == "" {
		return errs.InvalidInput(pkgName, "validate", "branch name cannot be empty")
	}
	if name == refs.RefHEAD.String() || strings.HasPrefix(name, "-") {
		return errs.InvalidInput(pkgName, "validate", fmt.Sprintf("'%s' is not a valid branch name", name))
	}
	if _, err := refs.NewBranchRef(name); err != nil {
		return errs.InvalidInput(pkgName, "validate", fmt.Sprintf("'%s' is not a valid branch name", name))
	}
	return nil
}
