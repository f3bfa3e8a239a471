package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// declKinds are the top-level declaration node types this index recognizes:
// function/method signatures, struct/class/union/enum tags, typedefs, and
// #define macro names (spec.md 3's TranslationAnalyzer declaration set).
var declKinds = map[string]bool{
	"function_definition": true,
	"declaration":          true,
	"struct_specifier":     true,
	"union_specifier":      true,
	"enum_specifier":       true,
	"class_specifier":      true,
	"type_definition":      true,
	"preproc_def":          true,
	"preproc_function_def": true,
}

// buildDeclIndex walks every file and returns a name -> declaring-file
// table. This stands in for the libclang-backed semantic resolution
// spec.md 4.7 describes: tree-sitter has no notion of "the declaration this
// reference resolves to", so Pass B resolves by matching identifier
// spelling against this project-wide index instead (see SPEC_FULL.md 3).
// A name already present keeps its first (definition-preferring) file.
func buildDeclIndex(files []string) map[string]string {
	index := map[string]string{}
	defined := map[string]bool{}

	for _, file := range files {
		tree, source, err := parseTree(file)
		if err != nil {
			continue
		}
		collectDecls(tree.RootNode(), source, file, index, defined)
		tree.Close()
	}
	return index
}

// bodyBearing are the declKinds whose "body" field holds a nested scope
// (a function's statements, or a struct/union/class/enum's members) rather
// than further top-level declarations. Descending into that scope would
// index local variables and struct/class members as if they were top-level
// names, letting an unrelated local shadow a real global in declIndex.
var bodyBearing = map[string]bool{
	"function_definition": true,
	"struct_specifier":    true,
	"union_specifier":     true,
	"class_specifier":     true,
	"enum_specifier":      true,
}

func collectDecls(n *sitter.Node, source []byte, file string, index map[string]string, defined map[string]bool) {
	if n == nil {
		return
	}
	if declKinds[n.Type()] {
		if name, ok := declaredName(n, source); ok {
			isDefinition := n.Type() == "function_definition" || n.Type() == "type_definition" ||
				n.Type() == "struct_specifier" || n.Type() == "union_specifier" ||
				n.Type() == "enum_specifier" || n.Type() == "class_specifier" ||
				n.Type() == "preproc_def" || n.Type() == "preproc_function_def"
			if _, already := index[name]; !already || (isDefinition && !defined[name]) {
				index[name] = file
				if isDefinition {
					defined[name] = true
				}
			}
		}
		if bodyBearing[n.Type()] {
			return
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectDecls(n.Child(i), source, file, index, defined)
	}
}

// declaredName finds the identifier a declaration node introduces by
// descending through "declarator" and "name" fields until it reaches a bare
// identifier-like leaf.
func declaredName(n *sitter.Node, source []byte) (string, bool) {
	switch n.Type() {
	case "identifier", "field_identifier", "type_identifier":
		return n.Content(source), true
	}

	if name := n.ChildByFieldName("name"); name != nil {
		return declaredName(name, source)
	}
	if decl := n.ChildByFieldName("declarator"); decl != nil {
		return declaredName(decl, source)
	}
	return "", false
}
