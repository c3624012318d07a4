package modpilot

// Short messages (one-liners)
const (
	MsgRootShort = "A local game content manager"
	MsgRootLong  = `modpilot manages locally installed game add-on content (mods, resource
packs, shader packs and data packs) and reconciles it against the Modrinth
and CurseForge registries: listing what is installed, toggling it on and
off, checking for updates and switching between versions.`

	MsgListShort     = "List installed content"
	MsgListLong      = "List displays the installed content of the selected profile, optionally marking pending updates."
	MsgToggleShort   = "Enable or disable content"
	MsgToggleLong    = "Toggle flips items between enabled and disabled by renaming them with the .disabled suffix. Each item succeeds or fails on its own."
	MsgDeleteShort   = "Delete content"
	MsgDeleteLong    = "Delete removes items from disk. Centrally managed items are skipped, never deleted."
	MsgCheckShort    = "Check for updates"
	MsgCheckLong     = "Check queries the registries for newer compatible versions of every identifiable item."
	MsgUpdateShort   = "Apply pending updates"
	MsgUpdateLong    = "Update installs the newest compatible version for the named items, or for everything with --all. Failures are per item."
	MsgVersionsShort = "Show the version history of an item"
	MsgSwitchShort   = "Switch an item to a specific version"
	MsgSwitchLong    = "Switch replaces an item's installed file with a chosen version from its registry history, keeping its enabled state."
	MsgInfoShort     = "Show an item's details and registry project info"
	MsgLoadersShort  = "List available mod loader versions"
	MsgOpenShort     = "Open an item's project page or the content folder"
	MsgProfileShort  = "Manage game profiles"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagProfile = "Profile to operate on"
	MsgFlagType    = "Content type (mods, resourcepacks, shaderpacks, datapacks)"
	MsgFlagFormat  = "Output format (auto, term, text, json)"

	// Status messages
	MsgDryRunNotice = "DRY RUN MODE - No changes were made"
)

// Example blocks
const (
	MsgListExample = `  # List installed mods for the default profile
  modpilot list

  # List resource packs with pending updates marked
  modpilot list -t resourcepacks --updates

  # Filter by name
  modpilot list -q sodium`

	MsgToggleExample = `  # Disable (or re-enable) two mods
  modpilot toggle sodium.jar lithium.jar`

	MsgUpdateExample = `  # Update one mod
  modpilot update sodium.jar

  # Update everything with a pending update
  modpilot update --all`

	MsgSwitchExample = `  # Pin a mod to an older version by version number
  modpilot switch sodium.jar 0.5.8

  # Or by registry version id
  modpilot switch sodium.jar mc1.21.1-0.5.8`
)
