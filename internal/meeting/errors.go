package meeting

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	invalidEventCode = "MEETING_EVENT_INVALID"
	submitFailedCode = "TANA_SUBMIT_FAILED"
	renderFailedCode = "MEETING_RENDER_FAILED"
)

func wrapInvalidEvent(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid meeting event").
		WithTextCode(invalidEventCode)
}

func wrapSubmitError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "tana submission failed").
		WithTextCode(submitFailedCode)
}

func wrapRenderError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "meeting render failed").
		WithTextCode(renderFailedCode)
}
