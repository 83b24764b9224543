// seehuhn.de/go/eps - import Encapsulated PostScript drawings
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package eps

import (
	"seehuhn.de/go/eps/psenc"
)

// builtins is the fixed operator table.  It is consulted before the
// dictionary stack and is never modified after initialization.
var builtins map[Name]*builtin

func init() {
	ops := map[Name]func(*Interpreter) error{
		// stack
		"pop":         bPop,
		"exch":        bExch,
		"dup":         bDup,
		"copy":        bCopy,
		"index":       bIndex,
		"roll":        bRoll,
		"clear":       bClear,
		"count":       bCount,
		"mark":        bMark,
		"cleartomark": bCleartomark,
		"counttomark": bCounttomark,

		// arrays, strings and dictionaries
		"[":              bMark,
		"]":              bArrayEnd,
		"<<":             bMark,
		">>":             bDictEnd,
		"array":          bArray,
		"string":         bString,
		"length":         bLength,
		"get":            bGet,
		"put":            bPut,
		"getinterval":    bGetinterval,
		"putinterval":    bPutinterval,
		"aload":          bAload,
		"astore":         bAstore,
		"search":         bSearch,
		"anchorsearch":   bAnchorsearch,
		"dict":           bDict,
		"maxlength":      bMaxlength,
		"begin":          bBegin,
		"end":            bEnd,
		"def":            bDef,
		"load":           bLoad,
		"store":          bStore,
		"undef":          bUndef,
		"known":          bKnown,
		"where":          bWhere,
		"currentdict":    bCurrentdict,
		"countdictstack": bCountdictstack,
		"bind":           bBind,

		// arithmetic and logic
		"add":      bAdd,
		"sub":      bSub,
		"mul":      bMul,
		"div":      bDiv,
		"idiv":     bIdiv,
		"mod":      bMod,
		"neg":      bNeg,
		"abs":      bAbs,
		"ceiling":  bCeiling,
		"floor":    bFloor,
		"round":    bRound,
		"truncate": bTruncate,
		"sqrt":     bSqrt,
		"exp":      bExp,
		"ln":       bLn,
		"log":      bLog,
		"sin":      bSin,
		"cos":      bCos,
		"atan":     bAtan,
		"rand":     bRand,
		"srand":    bSrand,
		"rrand":    bRrand,
		"and":      bAnd,
		"or":       bOr,
		"xor":      bXor,
		"not":      bNot,
		"bitshift": bBitshift,
		"eq":       bEq,
		"ne":       bNe,
		"gt":       bGt,
		"ge":       bGe,
		"lt":       bLt,
		"le":       bLe,

		// type conversion and access
		"type":        bType,
		"cvr":         bCvr,
		"cvi":         bCvi,
		"cvn":         bCvn,
		"cvs":         bCvs,
		"cvrs":        bCvrs,
		"cvx":         bCvx,
		"cvlit":       bCvlit,
		"xcheck":      bXcheck,
		"rcheck":      bRcheck,
		"wcheck":      bWcheck,
		"readonly":    bReadonly,
		"executeonly": bExecuteonly,
		"noaccess":    bNoaccess,

		// control
		"exec":    bExec,
		"if":      bIf,
		"ifelse":  bIfelse,
		"for":     bFor,
		"repeat":  bRepeat,
		"loop":    bLoop,
		"forall":  bForall,
		"exit":    bExit,
		"stop":    bStop,
		"stopped": bStopped,
		"quit":    bQuit,

		// files
		"file":           bFile,
		"currentfile":    bCurrentfile,
		"read":           bRead,
		"readstring":     bReadstring,
		"readhexstring":  bReadhexstring,
		"readline":       bReadline,
		"bytesavailable": bBytesavailable,
		"closefile":      bClosefile,
		"status":         bStatus,
		"token":          bToken,
		"write":          bWrite,
		"writestring":    bWritestring,
		"flushfile":      bFlushfile,
		"filter":         bFilter,
		"eexec":          bEexec,

		// miscellaneous
		"version":        bVersion,
		"languagelevel":  bLanguagelevel,
		"product":        bProduct,
		"realtime":       bRealtime,
		"usertime":       bUsertime,
		"vmstatus":       bVmstatus,
		"save":           bSave,
		"restore":        bRestore,
		"showpage":       bShowpage,
		"copypage":       bNop,
		"erasepage":      bNop,
		"setpagedevice":  bSetpagedevice,
		"setglobal":      bSetglobal,
		"currentglobal":  bCurrentglobal,
		"setpacking":     bSetglobal,
		"currentpacking": bCurrentglobal,
		"print":          bPrint,
		"=":              bEqualsPrint,
		"==":             bEqualsEqualsPrint,
		"pstack":         bPstack,
		"stack":          bStack,
		"flush":          bFlush,
		"findresource":   bFindresource,
		"defineresource": bDefineresource,
		"resourcestatus": bResourcestatus,
		"internaldict":   bInternaldict,
		"handleerror":    bHandleerror,

		// fonts and text
		"findfont":     bFindfont,
		"scalefont":    bScalefont,
		"makefont":     bMakefont,
		"setfont":      bSetfont,
		"currentfont":  bCurrentfont,
		"definefont":   bDefinefont,
		"undefinefont": bUndefinefont,
		"selectfont":   bSelectfont,
		"show":         bShow,
		"ashow":        bAshow,
		"widthshow":    bWidthshow,
		"awidthshow":   bAwidthshow,
		"kshow":        bKshow,
		"xshow":        bXshow,
		"yshow":        bXshow,
		"xyshow":       bXshow,
		"charpath":     bCharpath,
		"stringwidth":  bStringwidth,

		// graphics state
		"gsave":             bGsave,
		"grestore":          bGrestore,
		"grestoreall":       bGrestoreall,
		"initgraphics":      bInitgraphics,
		"gstate":            bGstate,
		"currentgstate":     bCurrentgstate,
		"setgstate":         bSetgstate,
		"setlinewidth":      bSetlinewidth,
		"currentlinewidth":  bCurrentlinewidth,
		"setlinecap":        bSetlinecap,
		"currentlinecap":    bCurrentlinecap,
		"setlinejoin":       bSetlinejoin,
		"currentlinejoin":   bCurrentlinejoin,
		"setmiterlimit":     bSetmiterlimit,
		"currentmiterlimit": bCurrentmiterlimit,
		"setdash":           bSetdash,
		"currentdash":       bCurrentdash,
		"setflat":           bSetflat,
		"currentflat":       bCurrentflat,
		"setstrokeadjust":   bSetstrokeadjust,
		"settransfer":       bSettransfer,
		"currenttransfer":   bCurrenttransfer,

		"setcolortransfer":     bPopN(4),
		"setblackgeneration":   bPopN(1),
		"setundercolorremoval": bPopN(1),
		"setscreen":            bPopN(3),
		"setcolorscreen":       bPopN(12),
		"sethalftone":          bPopN(1),
		"setoverprint":         bPopN(1),
		"setsmoothness":        bPopN(1),

		// matrices and coordinate systems
		"matrix":        bMatrix,
		"identmatrix":   bIdentmatrix,
		"currentmatrix": bCurrentmatrix,
		"setmatrix":     bSetmatrix,
		"initmatrix":    bInitmatrix,
		"defaultmatrix": bDefaultmatrix,
		"concat":        bConcat,
		"concatmatrix":  bConcatmatrix,
		"invertmatrix":  bInvertmatrix,
		"transform":     bTransform,
		"itransform":    bItransform,
		"dtransform":    bDtransform,
		"idtransform":   bIdtransform,
		"translate":     bTranslate,
		"scale":         bScale,
		"rotate":        bRotate,

		// colour
		"setgray":           bSetgray,
		"setrgbcolor":       bSetrgbcolor,
		"setcmykcolor":      bSetcmykcolor,
		"sethsbcolor":       bSethsbcolor,
		"currentgray":       bCurrentgray,
		"currentrgbcolor":   bCurrentrgbcolor,
		"currentcmykcolor":  bCurrentcmykcolor,
		"currenthsbcolor":   bCurrenthsbcolor,
		"setcolorspace":     bSetcolorspace,
		"currentcolorspace": bCurrentcolorspace,
		"setcolor":          bSetcolor,
		"currentcolor":      bCurrentcolor,

		// paths
		"newpath":      bNewpath,
		"moveto":       bMoveto,
		"rmoveto":      bRmoveto,
		"lineto":       bLineto,
		"rlineto":      bRlineto,
		"curveto":      bCurveto,
		"rcurveto":     bRcurveto,
		"closepath":    bClosepath,
		"arc":          bArc,
		"arcn":         bArcn,
		"arct":         bArct,
		"arcto":        bArcto,
		"currentpoint": bCurrentpoint,
		"pathbbox":     bPathbbox,
		"flattenpath":  bNop,
		"reversepath":  bReversepath,
		"clippath":     bClippath,
		"clip":         bClip,
		"eoclip":       bEoclip,
		"initclip":     bInitclip,
		"rectclip":     bRectclip,

		// painting
		"fill":       bFill,
		"eofill":     bEofill,
		"stroke":     bStroke,
		"rectfill":   bRectfill,
		"rectstroke": bRectstroke,

		// images
		"image":      bImage,
		"colorimage": bColorimage,
		"imagemask":  bImagemask,
	}

	builtins = make(map[Name]*builtin, len(ops))
	for name, fn := range ops {
		builtins[name] = &builtin{name: name, run: fn}
	}
}

// makeSystemDict returns a new systemdict, populated with the built-in
// operators and the standard dictionaries.  Every interpreter has its
// own copy.
func makeSystemDict() Dict {
	systemDict := make(Dict, len(builtins)+16)
	for name, b := range builtins {
		systemDict[name] = b
	}

	standardEncoding := make([]Object, 256)
	for i, name := range psenc.StandardEncoding {
		standardEncoding[i] = Name(name)
	}

	systemDict[Name("systemdict")] = systemDict
	systemDict[Name("userdict")] = Dict{}
	systemDict[Name("globaldict")] = Dict{}
	systemDict[Name("statusdict")] = Dict{}
	systemDict[Name("errordict")] = Dict{}
	systemDict[Name("$error")] = Dict{}
	systemDict[Name("FontDirectory")] = Dict{}
	systemDict[Name("StandardEncoding")] = Array{Elems: standardEncoding, Access: AccessReadOnly}
	systemDict[Name("true")] = Boolean(true)
	systemDict[Name("false")] = Boolean(false)
	systemDict[Name("null")] = nil

	return systemDict
}
