package agent

// processingPrompt instructs the agent to work through the pending task
// records. It is passed verbatim on the agent command line.
const processingPrompt = `You are the vault steward's processing agent. Process all task files in the Needs_Action folder.

For each task file:
1. Read the task file and understand what needs to be done
2. Read the Company_Handbook.md for rules and guidelines
3. Create a plan in the Plans folder
4. Execute the plan step by step
5. Update the Dashboard.md with your activities
6. Move completed tasks to the Done folder

Be thorough and follow all rules in the Company Handbook. Log all your actions.

Start by listing all files in Needs_Action and then process each one.`
