/*
 * ECAL
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package util

/*
Logger is required external object to which the interpreter releases its log messages.
*/
type Logger interface {

	/*
	   LogError adds a new error log message.
	*/
	LogError(v ...interface{})

	/*
	   LogInfo adds a new info log message.
	*/
	LogInfo(v ...interface{})

	/*
	   LogDebug adds a new debug log message.
	*/
	LogDebug(v ...interface{})
}

/*
StageError is satisfied by every error type the pipeline's stages raise
(parser.LexicalError, parser.ParseError, normalizer.Error,
machine.EvaluationError), letting the CLI render any of them uniformly
without importing every stage's package for a type switch.
*/
type StageError interface {
	error

	/*
		Stage identifies the pipeline stage which raised this error.
	*/
	Stage() string

	/*
		Line returns the source line this error occurred on, or 0 if none
		is available.
	*/
	Line() int
}

/*
FormatStageError renders a StageError as the single-line diagnostic the
CLI prints on failure: "<stage>: <message> (Line:<n>)". The Line suffix
is already part of Error() (a machine error with no known line has
none), so this only prepends the stage tag.
*/
func FormatStageError(err StageError) string {
	return err.Stage() + ": " + err.Error()
}
