// Package pathnorm rewrites paths found in IDE project files so that they
// start from one of two Makefile variables: $(PRJ_PATH), the project folder,
// or $(REPO_PATH), the shared firmware repository.
//
// Paths are handled as a Path value (a Root plus segments) rather than text.
// Three rules are provided:
//
//   - UserSource: "PARENT-3-PROJECT_LOC/Src/main.c" -> "$(PRJ_PATH)/Src/main.c"
//   - Shared: ".../Drivers/CMSIS/Include" -> "$(REPO_PATH)/Drivers/CMSIS/Include"
//   - Include: "../../../Inc" -> "$(PRJ_PATH)/Inc", otherwise as Shared
//
// A path already starting with $(PRJ_PATH) or $(REPO_PATH) is returned
// unchanged by every rule. A path no rule matches comes back unrooted with its
// raw text; callers decide whether that is acceptable.
package pathnorm
