package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// PullRequestInput is re-exported from gitforge. The external pull-request
// builder consumes it together with the file changes of an UpdateRecord.
type PullRequestInput = gitforgeEntities.PullRequestInput
