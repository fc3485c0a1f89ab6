/*

Process of compilation

Brainfuck Text ->
	parse ->
Instruction Stream (ir) ->
	optimize (optional) ->
Instruction Stream (ir) ->
	interp -> program output
	back   -> C Text ->
		cc (external) ->
	Binary Executable

*/
package compiler
