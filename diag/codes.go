package diag

// Code is a stable numeric diagnostic code. Codes below WarnBase are
// errors; codes at or above it are warnings.
type Code int

const (
	CodeNone Code = 0

	ErrBase                   Code = 10000
	ErrDuplicateDeclaration   Code = 10001
	ErrInvalidOperator        Code = 10002
	ErrWrongKindOfSymbol      Code = 10005
	ErrUndeclared             Code = 10006
	ErrUndeclaredWithSuggest  Code = 10007
	ErrInvalidMember          Code = 10008
	ErrMemberOfNonStruct      Code = 10009
	ErrMemberNotCoordinate    Code = 10010
	ErrArgumentTypeMismatch   Code = 10011
	ErrTooManyArguments       Code = 10012
	ErrTooFewArguments        Code = 10013
	ErrFunctionChangesState   Code = 10014
	ErrAssignedWrongType      Code = 10015
	ErrMemberAssignedWrong    Code = 10016
	ErrEventReturnsValue      Code = 10017
	ErrReturnWrongType        Code = 10018
	ErrNotAllPathsReturn      Code = 10019
	ErrSyntaxError            Code = 10020
	ErrGlobalInitNotConstant  Code = 10021
	ErrStateWithoutHandlers   Code = 10023
	ErrParserStackDepth       Code = 10024
	ErrConstantAssignment     Code = 10025
	ErrConstantRedeclared     Code = 10026
	ErrEventParameterMismatch Code = 10027
	ErrTooManyEventParameters Code = 10028
	ErrInvalidCast            Code = 10029
	ErrNestedList             Code = 10030
	ErrNullListElement        Code = 10031
	ErrUnknownEvent           Code = 10032
	ErrReturnValueFromVoid    Code = 10033

	WarnBase                 Code = 20000
	WarnShadowDeclaration    Code = 20001
	WarnUnusedVariable       Code = 20002
	WarnUnusedParameter      Code = 20003
	WarnConditionAlwaysTrue  Code = 20004
	WarnConditionAlwaysFalse Code = 20005
	WarnAssignmentInCondition Code = 20006
	WarnDeprecated           Code = 20007
	WarnUnusedEventParameter Code = 20008
	WarnEmptyIfBody          Code = 20009
	WarnDuplicateLabel       Code = 20010
)

// messageFormats maps each code to its fmt template. The argument order
// is part of each code's contract; tests pin the rendered output.
var messageFormats = map[Code]string{
	ErrBase:                   "ERROR",
	ErrDuplicateDeclaration:   "Duplicate declaration of `%s'; previously declared at (%d, %d).",
	ErrInvalidOperator:        "Invalid operator: %s %s %s.",
	ErrWrongKindOfSymbol:      "Attempting to use `%s' as a %s, but it is a %s.",
	ErrUndeclared:             "`%s' is undeclared.",
	ErrUndeclaredWithSuggest:  "`%s' is undeclared; did you mean %s?",
	ErrInvalidMember:          "Invalid member: `%s.%s'.",
	ErrMemberOfNonStruct:      "Trying to access `%s.%s', but `%[1]s' is a %[3]s",
	ErrMemberNotCoordinate:    "Attempting to access `%s.%s', but `%[1]s' is not a vector or rotation.",
	ErrArgumentTypeMismatch:   "Passing %s as argument %d of `%s' which is declared as `%s %s'.",
	ErrTooManyArguments:       "Too many arguments to function `%s'.",
	ErrTooFewArguments:        "Too few arguments to function `%s'.",
	ErrFunctionChangesState:   "Functions cannot change state.",
	ErrAssignedWrongType:      "`%s %s' assigned a %s value.",
	ErrMemberAssignedWrong:    "%s member assigned %s value (must be float or integer).",
	ErrEventReturnsValue:      "Event handlers cannot return a value.",
	ErrReturnWrongType:        "Returning a %s value from a %s function.",
	ErrNotAllPathsReturn:      "Not all code paths return a value.",
	ErrSyntaxError:            "%s",
	ErrGlobalInitNotConstant:  "Global initializer must be constant.",
	ErrStateWithoutHandlers:   "State must have at least one event handler.",
	ErrParserStackDepth:       "Parser stack depth exceeded; SL will throw a syntax error here.",
	ErrConstantAssignment:     "`%s' is a constant and cannot be used as an lvalue.",
	ErrConstantRedeclared:     "`%s' is a constant and cannot be used in a variable declaration.",
	ErrEventParameterMismatch: "Declaring `%s' as parameter %d of `%s' which should be `%s %s'.",
	ErrTooManyEventParameters: "Too many parameters for event `%s'.",
	ErrInvalidCast:            "Can't cast from %s to %s.",
	ErrNestedList:             "Lists can't contain other lists.",
	ErrNullListElement:        "Lists can't contain null elements.",
	ErrUnknownEvent:           "`%s' is not a valid event name.",
	ErrReturnValueFromVoid:    "Returning a value from a function with no return type.",

	WarnBase:                  "WARNING",
	WarnShadowDeclaration:     "Declaration of `%s' shadows a declaration at (%d, %d).",
	WarnUnusedVariable:        "Variable `%s' is never used.",
	WarnUnusedParameter:       "Parameter `%s' is never used.",
	WarnConditionAlwaysTrue:   "Condition is always true.",
	WarnConditionAlwaysFalse:  "Condition is always false.",
	WarnAssignmentInCondition: "Assignment used where a condition was expected; did you mean `=='?",
	WarnDeprecated:            "`%s' is deprecated; use %s instead.",
	WarnUnusedEventParameter:  "Event parameter `%s' is never used.",
	WarnEmptyIfBody:           "`if' statement has an empty body.",
	WarnDuplicateLabel:        "label `@%s' is declared multiple times in the same function, which may cause undesired behavior",
}

// IsWarning reports whether the code sits in the warning band.
func (c Code) IsWarning() bool { return c >= WarnBase }
