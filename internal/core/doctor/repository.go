package doctor

import "context"

// RepositoryCheck verifies that the working directory is inside a work tree.
type RepositoryCheck struct {
	open func(ctx context.Context) (root string, err error)
}

// NewRepositoryCheck creates a check that resolves the repository root with open.
func NewRepositoryCheck(open func(ctx context.Context) (string, error)) *RepositoryCheck {
	return &RepositoryCheck{open: open}
}

func (c *RepositoryCheck) Name() string {
	return "Repository"
}

func (c *RepositoryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	root, err := c.open(ctx)
	if err != nil {
		result.Items = append(result.Items, warn("work tree", err.Error()))
		return result
	}
	result.Items = append(result.Items, pass("work tree", root))
	return result
}
