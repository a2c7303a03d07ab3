package lead

import "errors"

var ErrEmptyUpdate = errors.New("nothing to update")
